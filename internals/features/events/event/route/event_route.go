package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"diemdanh_backend/internals/constants"
	eventController "diemdanh_backend/internals/features/events/event/controller"
	authMiddleware "diemdanh_backend/internals/middlewares/auth"
)

// 🔓 Public: dipakai halaman check-in
func EventPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := eventController.NewEventController(db)
	r.Get("/events/by-code/:code", ctrl.GetByCode)
}

// 🔐 Staff (admin|manager) read, admin write
func EventStaffRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := eventController.NewEventController(db)
	adminOnly := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("quản lý sự kiện"), constants.AdminOnly...)

	events := r.Group("/events")
	events.Get("/", ctrl.List)
	events.Get("/:id", ctrl.Get)
	events.Post("/", adminOnly, ctrl.Create)
	events.Put("/:id", adminOnly, ctrl.Update)
	events.Delete("/:id", adminOnly, ctrl.Delete)
}
