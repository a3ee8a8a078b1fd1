package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authRoute "diemdanh_backend/internals/features/users/auth/route"
	authService "diemdanh_backend/internals/features/users/auth/service"
)

func AuthRoutes(app fiber.Router, db *gorm.DB, svc *authService.AuthService, secureCookie bool) {
	authRoute.AuthRoutes(app, db, svc, secureCookie)
}
