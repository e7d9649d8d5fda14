package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/bytefixx/gridcalc/internal/adapters/nats"
	projadapter "github.com/bytefixx/gridcalc/internal/adapters/proj"
	"github.com/bytefixx/gridcalc/internal/core/usecases"
	"github.com/bytefixx/gridcalc/internal/core/zones"
	"github.com/bytefixx/gridcalc/internal/pkg/config"
	"github.com/bytefixx/gridcalc/internal/pkg/logging"
	"github.com/bytefixx/gridcalc/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("gridcalc-batchworker")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	catalog := zones.NewCatalog()
	if _, ok := catalog.ESM.Lookup(cfg.Conversion.BatchZone); !ok {
		log.Fatalf("conversion config: unknown batch zone %q", cfg.Conversion.BatchZone)
	}

	transformer := projadapter.New()
	defer transformer.Close()
	if err := transformer.Check(ctx); err != nil {
		log.Fatalf("proj: %v", err)
	}

	conn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	publisher, err := natsadapter.NewPublisherFromConn(conn)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer publisher.Close()

	batch := usecases.NewBatchService(transformer, catalog, publisher, cfg.Conversion.BatchZone, cfg.Conversion.MaxBatchRows)

	sub := natsadapter.NewSubscriberFromConn(conn)
	if err := sub.SubscribeBatchRequests(ctx, natsadapter.BatchHandler(batch)); err != nil {
		log.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	slog.Info("batch worker started",
		"subject", natsadapter.SubjectBatchRequest,
		"queue", natsadapter.QueueBatchWorkers,
		"default_zone", cfg.Conversion.BatchZone,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down batch worker", "signal", sig.String())
}
