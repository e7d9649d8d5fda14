// Package shapefile exports batch results as an ESRI point shapefile.
package shapefile

import (
	"fmt"
	"os"
	"strings"

	"github.com/jonas-p/go-shp"

	"github.com/bytefixx/gridcalc/internal/core/domain"
)

// wgs84WKT is written to the .prj sidecar so GIS tools pick up EPSG:4326.
const wgs84WKT = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// Attribute table columns, in order.
var fields = []shp.Field{
	shp.StringField("POINT_ID", 64),
	shp.FloatField("LAT", 18, 9),
	shp.FloatField("LON", 18, 9),
	shp.FloatField("HEIGHT", 14, 3),
}

// WriteResults writes the successful results as WGS84 points to path (which
// must end in .shp) plus the .shx, .dbf and .prj sidecars. Failed rows are
// skipped. It returns the number of points written.
func WriteResults(path string, results []domain.BatchResult) (int, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".shp") {
		return 0, fmt.Errorf("shapefile path %q must end in .shp", path)
	}

	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return 0, fmt.Errorf("create shapefile: %w", err)
	}
	defer w.Close()

	if err := w.SetFields(fields); err != nil {
		return 0, fmt.Errorf("set shapefile fields: %w", err)
	}

	n := 0
	for _, r := range results {
		if !r.OK {
			continue
		}
		row := int(w.Write(&shp.Point{X: r.Lon, Y: r.Lat}))
		attrs := []interface{}{r.PointID, r.Lat, r.Lon, r.Height}
		for i, v := range attrs {
			if err := w.WriteAttribute(row, i, v); err != nil {
				return n, fmt.Errorf("write attribute %d of %s: %w", i, r.PointID, err)
			}
		}
		n++
	}

	prj := strings.TrimSuffix(path, path[len(path)-4:]) + ".prj"
	if err := os.WriteFile(prj, []byte(wgs84WKT), 0o644); err != nil {
		return n, fmt.Errorf("write projection file: %w", err)
	}
	return n, nil
}
