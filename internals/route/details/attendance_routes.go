package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceRoute "diemdanh_backend/internals/features/attendance/route"
	attendanceService "diemdanh_backend/internals/features/attendance/service"
	authMiddleware "diemdanh_backend/internals/middlewares/auth"
)

func AttendancePublicRoutes(public fiber.Router, db *gorm.DB, checkins *attendanceService.CheckinService, auth authMiddleware.AuthJWTOpts) {
	attendanceRoute.AttendancePublicRoutes(public, db, checkins, auth)
}

func AttendanceStaffRoutes(staff fiber.Router, db *gorm.DB) {
	attendanceRoute.AttendanceStaffRoutes(staff, db)
}
