package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "diemdanh_backend/internals/helpers"
)

func ipLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter() fiber.Handler {
	return ipLimiter(300, time.Minute, "❌ Quá nhiều yêu cầu. Vui lòng thử lại sau.")
}

// Check-in: a whole room may share one NAT address, so this stays generous.
func CheckinRateLimiter() fiber.Handler {
	return ipLimiter(120, time.Minute, "❌ Quá nhiều lượt điểm danh từ địa chỉ này. Vui lòng thử lại sau.")
}

// Rate limiter untuk login route (lebih ketat)
func LoginRateLimiter() fiber.Handler {
	return ipLimiter(10, time.Minute, "❌ Quá nhiều lần đăng nhập. Vui lòng thử lại sau ít phút.")
}
