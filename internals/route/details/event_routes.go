package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventRoute "diemdanh_backend/internals/features/events/event/route"
)

func EventPublicRoutes(public fiber.Router, db *gorm.DB) {
	eventRoute.EventPublicRoutes(public, db)
}

func EventStaffRoutes(staff fiber.Router, db *gorm.DB) {
	eventRoute.EventStaffRoutes(staff, db)
}
