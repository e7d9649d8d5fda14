package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/bytefixx/gridcalc/internal/core/usecases"
)

// ReadinessChecker is a backend the ready probe can ping.
type ReadinessChecker interface {
	Check(ctx context.Context) error
}

// Pinger is implemented by the result cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Conversion *usecases.ConversionService
	Batch      *usecases.BatchService
	Calculator *usecases.CalculatorService
	Zones      *usecases.ZoneService

	// Projection is checked by /v1/ready. nil skips the check.
	Projection ReadinessChecker
	NATS       *nats.Conn
	Cache      Pinger

	// MaxUploadBytes bounds the CSV accepted by /v1/batch and /ws/batch.
	MaxUploadBytes int
}
