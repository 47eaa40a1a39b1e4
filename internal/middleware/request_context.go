package middleware

import (
	"context"
	"time"

	"github.com/RajaSunrise/toko/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

// RequestContext bounds every request with timeout and tags its log lines with the
// request id set by the requestid middleware.
func RequestContext(timeout time.Duration, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()

		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			ctx = log.WithRequestID(ctx, id)
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
