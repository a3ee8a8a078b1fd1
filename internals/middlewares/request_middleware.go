package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"

	"diemdanh_backend/internals/helpers/logging"
	"diemdanh_backend/internals/helpers/metrics"
)

const HeaderRequestID = "X-Request-ID"

// RequestID propagates or generates X-Request-ID and binds it to the request logger.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = utils.UUID()
		}
		c.Set(HeaderRequestID, id)
		c.Locals("requestid", id)
		c.SetUserContext(logging.WithRequestID(c.UserContext(), id))
		return c.Next()
	}
}

// Metrics records count and latency per matched route.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		metrics.RecordAPIRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
