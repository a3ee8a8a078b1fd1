// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"diemdanh_backend/internals/constants"
	"diemdanh_backend/internals/features/attendance/identity"
	attendanceService "diemdanh_backend/internals/features/attendance/service"
	authService "diemdanh_backend/internals/features/users/auth/service"
	"diemdanh_backend/internals/helpers/logging"
	"diemdanh_backend/internals/helpers/nationalid"
	rateLimiter "diemdanh_backend/internals/middlewares"
	authMiddleware "diemdanh_backend/internals/middlewares/auth"
	routeDetails "diemdanh_backend/internals/route/details"
)

var startTime time.Time

// Deps are the collaborators built from configuration in main.
type Deps struct {
	Tokens       authService.TokenIssuer
	Verifier     attendanceService.TokenVerifier
	Hasher       nationalid.Hasher
	SecureCookie bool
}

func SetupRoutes(app *fiber.App, db *gorm.DB, deps Deps) {
	startTime = time.Now()

	resolver := identity.NewResolver(db, deps.Hasher)
	checkins := attendanceService.NewCheckinService(db, resolver, deps.Verifier)
	authSvc := authService.NewAuthService(db, resolver, deps.Verifier, deps.Tokens)

	authOpts := authMiddleware.AuthJWTOpts{
		Tokens:    deps.Tokens,
		IsRevoked: authSvc.IsRevoked,
	}

	BaseRoutes(app, db)

	app.Use(rateLimiter.GlobalRateLimiter())

	// ===================== PUBLIC =====================
	logging.Info().Msg("[INFO] Setting up PUBLIC routes...")
	routeDetails.AuthRoutes(app, db, authSvc, deps.SecureCookie)
	routeDetails.AttendancePublicRoutes(app, db, checkins, authOpts)
	routeDetails.EventPublicRoutes(app, db)

	// ===================== STAFF (admin|manager) =====================
	// Mounted last: its middleware runs for every path not matched above.
	logging.Info().Msg("[INFO] Setting up STAFF group (Auth + RoleCheck)...")
	staff := app.Group("",
		authMiddleware.AuthJWT(authOpts),
		authMiddleware.OnlyRolesSlice(constants.RoleErrorStaff("khu vực quản trị"), constants.StaffRoles),
	)
	routeDetails.AttendanceStaffRoutes(staff, db)
	routeDetails.EventStaffRoutes(staff, db)
	routeDetails.UserRoutes(staff, db, deps.Hasher)
}
