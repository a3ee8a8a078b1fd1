package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"diemdanh_backend/internals/constants"
	userController "diemdanh_backend/internals/features/users/user/controller"
	"diemdanh_backend/internals/helpers/nationalid"
	authMiddleware "diemdanh_backend/internals/middlewares/auth"
)

// 🔐 Staff read, admin write
func UserStaffRoutes(r fiber.Router, db *gorm.DB, hasher nationalid.Hasher) {
	ctrl := userController.NewUserController(db, hasher)
	adminOnly := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("quản lý người dùng"), constants.AdminOnly...)

	users := r.Group("/users")
	users.Get("/", ctrl.GetUsers)
	users.Get("/:uid", ctrl.GetUser)
	users.Post("/", adminOnly, ctrl.CreateUser)
	users.Put("/:uid", adminOnly, ctrl.UpdateUser)
	users.Delete("/:uid", adminOnly, ctrl.DeleteUser)
}
