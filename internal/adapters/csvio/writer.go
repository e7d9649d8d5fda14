package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/bytefixx/gridcalc/internal/core/domain"
)

// ResultHeader is the column order of the batch output table.
var ResultHeader = []string{"point_id", "lat", "lon", "height", "status"}

// template is the downloadable sample input.
const template = "easting,northing,height,point_id\n" +
	"3877983.50,756073.40,600.0,P1\n" +
	"3878500.20,756500.10,650.0,P2"

// Template returns a sample input table.
func Template() string {
	return template
}

// WriteResults writes results in order. Failed rows leave lat and lon empty.
func WriteResults(w io.Writer, results []domain.BatchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultHeader); err != nil {
		return err
	}

	record := make([]string, len(ResultHeader))
	for _, r := range results {
		record[0] = r.PointID
		record[1], record[2] = "", ""
		if r.OK {
			record[1] = formatFloat(r.Lat)
			record[2] = formatFloat(r.Lon)
		}
		record[3] = formatFloat(r.Height)
		record[4] = r.Status
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
