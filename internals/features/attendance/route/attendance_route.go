package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceController "diemdanh_backend/internals/features/attendance/controller"
	"diemdanh_backend/internals/features/attendance/service"
	rateLimiter "diemdanh_backend/internals/middlewares"
	authMiddleware "diemdanh_backend/internals/middlewares/auth"
)

// 🔓 Public: POST /checkin
// A staff token, when present, is recorded as the log actor.
func AttendancePublicRoutes(r fiber.Router, db *gorm.DB, checkins *service.CheckinService, auth authMiddleware.AuthJWTOpts) {
	ctrl := attendanceController.NewAttendanceController(db, checkins)
	r.Post("/checkin", rateLimiter.CheckinRateLimiter(), authMiddleware.OptionalAuth(auth), ctrl.Checkin)
}

// 🔐 Staff (admin|manager)
func AttendanceStaffRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := attendanceController.NewAttendanceController(db, nil)

	r.Post("/attendances", ctrl.Attendances)
	r.Post("/attendance-logs", ctrl.CreateLog)

	att := r.Group("/attendances")
	att.Get("/events/:id/report", ctrl.EventReport)
	att.Get("/events/:id/logs", ctrl.EventLogs)
	att.Post("/events/:id/checkout", ctrl.Checkout)
	att.Get("/users/:uid/history", ctrl.UserHistory)
}
