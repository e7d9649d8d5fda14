// Package csvio reads batch input tables and writes batch results as CSV.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bytefixx/gridcalc/internal/core/domain"
)

// Column names of the batch input table.
const (
	ColEasting  = "easting"
	ColNorthing = "northing"
	ColHeight   = "height"
	ColPointID  = "point_id"
)

// ErrMissingHeader is returned for input without a header row.
var ErrMissingHeader = &domain.ValidationError{Field: "csv", Value: "", Reason: "header row required"}

// ReadRows parses a batch table. The header row is required and must name
// easting and northing; height and point_id are optional. Columns may appear
// in any order and extra columns are ignored.
//
// A cell or record that cannot be parsed marks only its row: the row is
// returned with Err set. A missing header or required column fails the whole
// read.
func ReadRows(r io.Reader) ([]domain.BatchRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := indexColumns(header)
	for _, required := range []string{ColEasting, ColNorthing} {
		if _, ok := cols[required]; !ok {
			return nil, &domain.ValidationError{Field: "csv", Value: required, Reason: "required column missing"}
		}
	}

	var rows []domain.BatchRow
	for i := 0; ; i++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			rows = append(rows, domain.BatchRow{
				Line:    pe.StartLine,
				PointID: "P" + strconv.Itoa(i),
				Err:     &domain.ValidationError{Field: "record", Value: strconv.Itoa(pe.StartLine), Reason: pe.Err.Error()},
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, parseRow(i, line, record, cols))
	}
	return rows, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

// parseRow builds the row at data index i. The generated point id is "P<i>".
func parseRow(i, line int, record []string, cols map[string]int) domain.BatchRow {
	row := domain.BatchRow{Line: line, PointID: "P" + strconv.Itoa(i)}
	if id := cell(record, cols, ColPointID); id != "" {
		row.PointID = id
	}

	var err error
	if row.Height, err = domain.ParseOptionalNumber(ColHeight, cell(record, cols, ColHeight), 0); err != nil {
		row.Err = err
		return row
	}
	if row.Easting, err = domain.ParseNumber(ColEasting, cell(record, cols, ColEasting)); err != nil {
		row.Err = err
		return row
	}
	if row.Northing, err = domain.ParseNumber(ColNorthing, cell(record, cols, ColNorthing)); err != nil {
		row.Err = err
		return row
	}
	return row
}

func cell(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
