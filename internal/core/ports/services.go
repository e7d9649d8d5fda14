package ports

import (
	"context"

	"github.com/bytefixx/gridcalc/internal/core/domain"
)

// EventPublisher publishes batch events to a message broker.
type EventPublisher interface {
	PublishBatchCompleted(ctx context.Context, summary *domain.BatchSummary) error
}

// BatchRequestHandler turns one queued batch request into the CSV reply body.
type BatchRequestHandler func(ctx context.Context, req *domain.BatchRequest) ([]byte, error)

// EventSubscriber receives batch requests from a message broker.
type EventSubscriber interface {
	SubscribeBatchRequests(ctx context.Context, handler BatchRequestHandler) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
