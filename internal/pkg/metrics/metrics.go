package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridcalc",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gridcalc",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gridcalc",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Conversion metrics
	ConversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridcalc",
		Subsystem: "conversion",
		Name:      "total",
		Help:      "Total conversions by operation and outcome",
	}, []string{"operation", "outcome"})

	ConversionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gridcalc",
		Subsystem: "conversion",
		Name:      "duration_seconds",
		Help:      "Conversion latency including delegated transforms",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"operation"})

	FallbackZoneUsed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gridcalc",
		Subsystem: "conversion",
		Name:      "fallback_zone_total",
		Help:      "Geographic to ESM conversions that fell back to the default zone",
	})

	// Batch metrics
	BatchRowsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridcalc",
		Subsystem: "batch",
		Name:      "rows_total",
		Help:      "Total batch rows processed by status",
	}, []string{"status"})

	BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridcalc",
		Subsystem: "batch",
		Name:      "duration_seconds",
		Help:      "Duration of complete batch runs",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridcalc",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridcalc",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridcalc",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// PROJ handle cache
	ProjHandlesOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridcalc",
		Subsystem: "proj",
		Name:      "handles_open",
		Help:      "Transformation handles held by the projection adapter",
	})
)

// ObserveConversion records one finished conversion.
func ObserveConversion(operation, outcome string, start time.Time) {
	ConversionsTotal.WithLabelValues(operation, outcome).Inc()
	ConversionDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
