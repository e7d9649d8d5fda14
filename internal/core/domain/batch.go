package domain

import (
	"errors"
	"time"
)

// Batch result statuses.
const (
	StatusSuccess     = "Success"
	StatusErrorPrefix = "Error: "
)

// BatchRow is one parsed input row. Err is set when a cell could not be read;
// such rows are reported as failures without calling the transformer.
type BatchRow struct {
	Line     int     `json:"line"`
	PointID  string  `json:"point_id"`
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
	Height   float64 `json:"height"`
	Err      error   `json:"-"`
}

// BatchResult is the per-row outcome, in input order.
type BatchResult struct {
	PointID string  `json:"point_id"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Height  float64 `json:"height"`
	Status  string  `json:"status"`
	OK      bool    `json:"ok"`
	Err     error   `json:"-"`
}

// Failed builds an error result for a row. The status carries the message of
// the innermost transform failure, without the step prefix.
func Failed(pointID string, height float64, err error) BatchResult {
	msg := err.Error()
	var te *TransformError
	if errors.As(err, &te) {
		msg = te.Err.Error()
	}
	return BatchResult{
		PointID: pointID,
		Height:  height,
		Status:  StatusErrorPrefix + msg,
		Err:     err,
	}
}

// BatchSummary describes a finished batch run.
type BatchSummary struct {
	ID         string        `json:"id"`
	Source     CRS           `json:"source"`
	Zone       string        `json:"zone"`
	Total      int           `json:"total"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"duration_ns"`
	FinishedAt time.Time     `json:"finished_at"`
}

// ProgressFunc receives (rows processed, total rows) after every row.
type ProgressFunc func(done, total int)

// BatchRequest is a batch submitted over the message broker: the CSV body and
// the ESM zone its grid coordinates are in (empty for the configured default).
type BatchRequest struct {
	Zone string `json:"zone"`
	CSV  string `json:"csv"`
}
