package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber converts user-supplied text to a float. Empty or non-numeric
// text yields a *ValidationError; callers must run this before any geometry
// or conversion operation.
func ParseNumber(field, text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, &ValidationError{Field: field, Value: text, Reason: "value is required"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Value: text, Reason: "not a number"}
	}
	return v, nil
}

// ParseOptionalNumber is ParseNumber with a default for empty text.
func ParseOptionalNumber(field, text string, def float64) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return def, nil
	}
	return ParseNumber(field, text)
}
