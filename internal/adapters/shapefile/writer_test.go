package shapefile_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytefixx/gridcalc/internal/adapters/shapefile"
	"github.com/bytefixx/gridcalc/internal/core/domain"
)

func TestWriteResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.shp")
	results := []domain.BatchResult{
		{PointID: "P1", Lat: 30.3165, Lon: 78.0322, Height: 600, Status: domain.StatusSuccess, OK: true},
		domain.Failed("P2", 650, errors.New("tolerance condition error")),
		{PointID: "P3", Lat: 30.5, Lon: 78.5, Height: 650, Status: domain.StatusSuccess, OK: true},
	}

	n, err := shapefile.WriteResults(path, results)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	prj, err := os.ReadFile(strings.TrimSuffix(path, ".shp") + ".prj")
	require.NoError(t, err)
	assert.Contains(t, string(prj), "WGS_1984")

	r, err := shp.Open(path)
	require.NoError(t, err)
	defer r.Close()

	var points []*shp.Point
	var ids []string
	for r.Next() {
		i, s := r.Shape()
		p, ok := s.(*shp.Point)
		require.True(t, ok)
		points = append(points, p)
		ids = append(ids, strings.TrimSpace(r.ReadAttribute(i, 0)))
	}

	require.Len(t, points, 2)
	assert.InDelta(t, 78.0322, points[0].X, 1e-9)
	assert.InDelta(t, 30.3165, points[0].Y, 1e-9)
	assert.Equal(t, []string{"P1", "P3"}, ids)
}

func TestWriteResults_RequiresShpExtension(t *testing.T) {
	_, err := shapefile.WriteResults(filepath.Join(t.TempDir(), "results.csv"), nil)
	assert.Error(t, err)
}
