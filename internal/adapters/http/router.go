package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/bytefixx/gridcalc/internal/pkg/metrics"
)

const (
	requestTimeout = 15 * time.Second
	batchTimeout   = 2 * time.Minute
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	v1.Get("/calc/geodetic", GeodeticHandler(deps))
	v1.Get("/calc/grid", GridDistanceHandler(deps))
	v1.Get("/dms/encode", DMSEncodeHandler(deps))
	v1.Get("/dms/decode", DMSDecodeHandler(deps))

	v1.Get("/zones", ListZonesHandler(deps))
	v1.Get("/zones/detect", DetectZonesHandler(deps))
	v1.Get("/zones/dsm-params", DSMFamiliesHandler(deps))
	v1.Get("/zones/:family/:code", GetZoneHandler(deps))

	convert := v1.Group("/convert")
	convert.Get("/geo-to-esm", timeout.NewWithContext(GeoToESMHandler(deps), requestTimeout))
	convert.Get("/esm-to-geo", timeout.NewWithContext(ESMToGeoHandler(deps), requestTimeout))
	convert.Get("/esm-to-dsm", timeout.NewWithContext(ESMToDSMHandler(deps), requestTimeout))
	convert.Get("/dsm-to-geo", timeout.NewWithContext(DSMToGeoHandler(deps), requestTimeout))
	convert.Get("/dsm-to-esm", timeout.NewWithContext(DSMToESMHandler(deps), requestTimeout))
	convert.Get("/geo-to-state", timeout.NewWithContext(GeoToStateHandler(deps), requestTimeout))

	v1.Get("/batch/template", BatchTemplateHandler())
	v1.Post("/batch", timeout.NewWithContext(BatchHandler(deps), batchTimeout))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/batch", websocket.New(BatchSocketHandler(deps)))
}
