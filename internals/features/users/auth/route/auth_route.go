// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "diemdanh_backend/internals/features/users/auth/controller"
	"diemdanh_backend/internals/features/users/auth/service"
	rateLimiter "diemdanh_backend/internals/middlewares"
	authMiddleware "diemdanh_backend/internals/middlewares/auth"
)

// Base: /auth
func AuthRoutes(r fiber.Router, db *gorm.DB, svc *service.AuthService, secureCookie bool) {
	authController := controller.NewAuthController(db, svc, secureCookie)
	optional := authMiddleware.OptionalAuth(authMiddleware.AuthJWTOpts{
		Tokens:    svc.Tokens,
		IsRevoked: svc.IsRevoked,
	})

	auth := r.Group("/auth")
	auth.Post("/google", rateLimiter.LoginRateLimiter(), authController.LoginGoogle)
	auth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	auth.Get("/me", optional, authController.Me)
	auth.Post("/logout", authController.Logout)
}
