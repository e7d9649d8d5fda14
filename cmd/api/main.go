package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/bytefixx/gridcalc/internal/adapters/http"
	natsadapter "github.com/bytefixx/gridcalc/internal/adapters/nats"
	projadapter "github.com/bytefixx/gridcalc/internal/adapters/proj"
	"github.com/bytefixx/gridcalc/internal/adapters/valkey"
	"github.com/bytefixx/gridcalc/internal/core/ports"
	"github.com/bytefixx/gridcalc/internal/core/usecases"
	"github.com/bytefixx/gridcalc/internal/core/zones"
	"github.com/bytefixx/gridcalc/internal/pkg/config"
	"github.com/bytefixx/gridcalc/internal/pkg/logging"
	"github.com/bytefixx/gridcalc/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("gridcalc-api")
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

	// Zone registries and fallback policy
	catalog := zones.NewCatalog()
	policy := usecases.FallbackPolicy{
		ESMZone:  cfg.Conversion.DefaultESMZone,
		GridZone: cfg.Conversion.GridZone,
	}
	if err := policy.Validate(catalog); err != nil {
		log.Fatalf("conversion config: %v", err)
	}
	if _, ok := catalog.ESM.Lookup(cfg.Conversion.BatchZone); !ok {
		log.Fatalf("conversion config: unknown batch zone %q", cfg.Conversion.BatchZone)
	}

	// Projection library
	transformer := projadapter.New()
	defer transformer.Close()
	if err := transformer.Check(ctx); err != nil {
		log.Fatalf("proj: %v", err)
	}

	deps := &http.Dependencies{
		Projection:     transformer,
		MaxUploadBytes: cfg.Server.BodyLimitMB * 1024 * 1024,
	}

	// Cache
	var cache ports.CacheService
	if cfg.Valkey.Enabled {
		vc, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer vc.Close()
			cache = vc
			deps.Cache = vc
		}
	}

	// NATS: completion events
	var publisher ports.EventPublisher
	if cfg.NATS.Enabled {
		conn, err := natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			pub, err := natsadapter.NewPublisherFromConn(conn)
			if err != nil {
				slog.Warn("jetstream unavailable", "error", err)
				conn.Close()
			} else {
				defer pub.Close()
				publisher = pub
				deps.NATS = conn
			}
		}
	}

	// Use cases
	deps.Conversion = usecases.NewConversionService(transformer, catalog, policy, cache, cfg.Conversion.CacheTTLSeconds)
	deps.Batch = usecases.NewBatchService(transformer, catalog, publisher, cfg.Conversion.BatchZone, cfg.Conversion.MaxBatchRows)
	deps.Calculator = usecases.NewCalculatorService(catalog)
	deps.Zones = usecases.NewZoneService(catalog)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    deps.MaxUploadBytes,
		AppName:      "gridcalc API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting",
			"addr", addr,
			"default_esm_zone", policy.ESMZone,
			"grid_zone", policy.GridZone,
			"batch_zone", cfg.Conversion.BatchZone,
		)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
