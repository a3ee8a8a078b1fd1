package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"diemdanh_backend/internals/features/users/user/dto"
	userRepo "diemdanh_backend/internals/features/users/user/repository"
	"diemdanh_backend/internals/features/users/user/service"
	helper "diemdanh_backend/internals/helpers"
	"diemdanh_backend/internals/helpers/nationalid"
)

type UserController struct {
	DB  *gorm.DB
	Svc *service.UserService
}

func NewUserController(db *gorm.DB, hasher nationalid.Hasher) *UserController {
	return &UserController{DB: db, Svc: service.NewUserService(db, hasher)}
}

// GET /users?page=&per_page=
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, helper.DefaultOpts)
	users, total, err := userRepo.ListUsers(c.UserContext(), uc.DB, p.Offset, p.Limit)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "Danh sách người dùng", users, helper.BuildPagination(total, p))
}

// GET /users/:uid
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "uid")
	if err != nil {
		return err
	}
	u, err := userRepo.FindUserByID(c.UserContext(), uc.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Không tìm thấy người dùng")
		}
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", u)
}

// POST /users
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req dto.UserRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.ValidationError(c, err)
	}
	u, err := uc.Svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Đã tạo người dùng", u)
}

// PUT /users/:uid
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "uid")
	if err != nil {
		return err
	}
	var req dto.UserRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.ValidationError(c, err)
	}
	u, err := uc.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Đã cập nhật người dùng", u)
}

// DELETE /users/:uid
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "uid")
	if err != nil {
		return err
	}
	if self, err := helper.GetUserIDFromToken(c); err == nil && self == id {
		return helper.JsonError(c, fiber.StatusBadRequest, "Không thể tự xoá tài khoản đang đăng nhập")
	}
	removed, err := uc.Svc.Delete(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Đã xoá người dùng", fiber.Map{"id": id, "attendances": removed})
}
