package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/bytefixx/gridcalc/internal/core/domain"
)

// --- Mock CoordinateTransformer ---

type transformCall struct {
	src, dst domain.CRS
	x, y     float64
}

type mockTransformer struct {
	transformFn func(ctx context.Context, src, dst domain.CRS, x, y float64) (float64, float64, error)

	mu    sync.Mutex
	calls []transformCall
}

func (m *mockTransformer) Transform(ctx context.Context, src, dst domain.CRS, x, y float64) (float64, float64, error) {
	m.mu.Lock()
	m.calls = append(m.calls, transformCall{src: src, dst: dst, x: x, y: y})
	m.mu.Unlock()

	if m.transformFn != nil {
		return m.transformFn(ctx, src, dst, x, y)
	}
	return x, y, nil
}

func (m *mockTransformer) Calls() []transformCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]transformCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// sequence returns a transformFn that answers the n-th call with outputs[n].
func sequence(outputs ...[2]float64) func(ctx context.Context, src, dst domain.CRS, x, y float64) (float64, float64, error) {
	var n int
	return func(ctx context.Context, src, dst domain.CRS, x, y float64) (float64, float64, error) {
		if n >= len(outputs) {
			return 0, 0, errors.New("unexpected transform call")
		}
		out := outputs[n]
		n++
		return out[0], out[1], nil
	}
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	publishFn func(ctx context.Context, summary *domain.BatchSummary) error
	published []*domain.BatchSummary
}

func (m *mockPublisher) PublishBatchCompleted(ctx context.Context, summary *domain.BatchSummary) error {
	m.published = append(m.published, summary)
	if m.publishFn != nil {
		return m.publishFn(ctx, summary)
	}
	return nil
}
