// Package projadapter implements ports.CoordinateTransformer on top of the
// PROJ library.
package projadapter

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/pebbe/proj/v5"

	"github.com/bytefixx/gridcalc/internal/core/domain"
	"github.com/bytefixx/gridcalc/internal/pkg/metrics"
)

// Transformer converts coordinates with PROJ. Transformation handles are
// created on first use per (source, target) pair and kept until Close.
//
// A PROJ context must not be used from two goroutines at once, so every call
// holds mu for the duration of the transform.
type Transformer struct {
	mu      sync.Mutex
	pctx    *proj.Context
	handles map[string]*proj.PJ
}

// New creates a Transformer with its own PROJ context.
func New() *Transformer {
	return &Transformer{
		pctx:    proj.NewContext(),
		handles: make(map[string]*proj.PJ),
	}
}

// Transform converts (x, y) from src to dst. Geographic systems take and
// return longitude/latitude in degrees.
func (t *Transformer) Transform(ctx context.Context, src, dst domain.CRS, x, y float64) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pctx == nil {
		return 0, 0, fmt.Errorf("transformer closed")
	}

	pj, err := t.handle(src, dst)
	if err != nil {
		return 0, 0, err
	}

	x2, y2, _, _, err := pj.Trans(proj.Fwd, x, y, 0, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("transform (%v, %v): %w", x, y, err)
	}
	if !finite(x2) || !finite(y2) {
		return 0, 0, fmt.Errorf("transform (%v, %v): result is not finite", x, y)
	}
	return x2, y2, nil
}

// Check builds the handle for WGS84 to Kalianpur Zone I, which fails when the
// PROJ database is missing. Used by readiness probes.
func (t *Transformer) Check(ctx context.Context) error {
	_, _, err := t.Transform(ctx, domain.WGS84, domain.EPSGCode(24378), 78.0, 30.0)
	return err
}

// Len returns the number of cached handles.
func (t *Transformer) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handles)
}

// Close releases every handle and the PROJ context.
func (t *Transformer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, pj := range t.handles {
		pj.Close()
		delete(t.handles, key)
	}
	metrics.ProjHandlesOpen.Set(0)
	if t.pctx != nil {
		t.pctx.Close()
		t.pctx = nil
	}
}

// handle returns the cached handle for src -> dst. Caller holds mu.
func (t *Transformer) handle(src, dst domain.CRS) (*proj.PJ, error) {
	key := src.Definition() + " -> " + dst.Definition()
	if pj, ok := t.handles[key]; ok {
		return pj, nil
	}

	pj, err := t.pctx.CreateCRS2CRS(src.Definition(), dst.Definition())
	if err != nil {
		return nil, fmt.Errorf("create transformation %s -> %s: %w", src, dst, err)
	}
	t.handles[key] = pj
	metrics.ProjHandlesOpen.Set(float64(len(t.handles)))
	return pj, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
