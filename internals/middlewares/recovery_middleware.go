package middlewares

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"diemdanh_backend/internals/helpers/logging"
)

// RecoveryMiddleware menangkap panic dan mengembalikan error 500
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			logging.Ctx(c.UserContext()).Error().
				Str("panic", fmt.Sprint(e)).
				Str("path", c.Path()).
				Msg("💥 panic recovered")
		},
	})
}
