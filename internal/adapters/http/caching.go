package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware fills in Cache-Control for GET responses that did not set
// one. Zone tables never change at runtime; conversions are pure functions of
// their query, so both cache well.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet || len(c.Response().Header.Peek(fiber.HeaderCacheControl)) > 0 {
			return err
		}
		if c.Response().StatusCode() >= 400 {
			c.Set(fiber.HeaderCacheControl, "no-store")
			return err
		}

		path := c.Path()
		var ttl string
		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "no-cache"
		case path == "/metrics":
			ttl = "no-cache"
		case strings.HasPrefix(path, "/v1/zones"):
			ttl = "public, max-age=86400"
		case strings.HasPrefix(path, "/v1/convert/"),
			strings.HasPrefix(path, "/v1/calc/"),
			strings.HasPrefix(path, "/v1/dms/"):
			ttl = "public, max-age=3600"
		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=300"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}
		return err
	}
}
