package ports

import (
	"context"

	"github.com/bytefixx/gridcalc/internal/core/domain"
)

// CoordinateTransformer converts a single coordinate between two reference
// systems. x/y are longitude/latitude for geographic systems and
// easting/northing for projected ones. Implementations report every failure
// as an error and never return partial results.
type CoordinateTransformer interface {
	Transform(ctx context.Context, src, dst domain.CRS, x, y float64) (float64, float64, error)
}
