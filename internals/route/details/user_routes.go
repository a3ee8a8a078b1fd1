package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userRoute "diemdanh_backend/internals/features/users/user/route"
	"diemdanh_backend/internals/helpers/nationalid"
)

func UserRoutes(staff fiber.Router, db *gorm.DB, hasher nationalid.Hasher) {
	userRoute.UserStaffRoutes(staff, db, hasher)
}
