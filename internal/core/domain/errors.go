package domain

import (
	"errors"
	"fmt"
)

// Classification misses surfaced by conversions that cannot fall back.
var (
	ErrOutsideDSMCoverage   = errors.New("coordinates outside DSM coverage")
	ErrOutsideESMCoverage   = errors.New("outside ESM (Kalianpur) coverage area")
	ErrOutsideStateCoverage = errors.New("outside WGS84 state zone coverage")
)

// ErrBatchTooLarge is returned when a batch exceeds the configured row limit.
var ErrBatchTooLarge = errors.New("batch exceeds row limit")

// ValidationError reports caller input that cannot be used: text that is not a
// number, or a zone code no registry knows.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// Conversion steps that delegate to the projection library.
const (
	StepWGS84ToESM   = "wgs84_to_esm"
	StepESMToWGS84   = "esm_to_wgs84"
	StepWGS84ToDSM   = "wgs84_to_dsm"
	StepDSMToWGS84   = "dsm_to_wgs84"
	StepWGS84ToState = "wgs84_to_state"
	StepBatchRow     = "batch_row"
)

// TransformError wraps a projection library failure with the step that issued it.
type TransformError struct {
	Step   string
	Source CRS
	Target CRS
	Err    error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%s (%s -> %s): %v", e.Step, e.Source, e.Target, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// IsClassificationMiss reports whether err is one of the coverage sentinels.
func IsClassificationMiss(err error) bool {
	return errors.Is(err, ErrOutsideDSMCoverage) ||
		errors.Is(err, ErrOutsideESMCoverage) ||
		errors.Is(err, ErrOutsideStateCoverage)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
