package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"diemdanh_backend/internals/features/users/auth/dto"
	"diemdanh_backend/internals/features/users/auth/service"
	userRepo "diemdanh_backend/internals/features/users/user/repository"
	helper "diemdanh_backend/internals/helpers"
	"diemdanh_backend/internals/helpers/logging"
)

type AuthController struct {
	DB           *gorm.DB
	Svc          *service.AuthService
	SecureCookie bool
}

func NewAuthController(db *gorm.DB, svc *service.AuthService, secureCookie bool) *AuthController {
	return &AuthController{DB: db, Svc: svc, SecureCookie: secureCookie}
}

// POST /auth/google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.ValidationError(c, err)
	}
	sess, err := ac.Svc.LoginGoogle(c.UserContext(), req.IDToken)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return ac.respondSession(c, sess)
}

// POST /auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.ValidationError(c, err)
	}
	sess, err := ac.Svc.LoginPassword(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return ac.respondSession(c, sess)
}

func (ac *AuthController) respondSession(c *fiber.Ctx, sess *service.Session) error {
	helper.SetAccessCookie(c, sess.Token, sess.ExpiresAt, ac.SecureCookie)
	logging.Ctx(c.UserContext()).Info().
		Str("user_id", sess.User.UserID.String()).
		Str("role", string(sess.User.UserRole)).
		Msg("🔑 staff signed in")
	return helper.JsonOK(c, "Đăng nhập thành công", sess)
}

// GET /auth/me (OptionalAuth)
func (ac *AuthController) Me(c *fiber.Ctx) error {
	idStr, _ := c.Locals(helper.LocUserID).(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return helper.JsonOK(c, "ok", dto.MeResponse{})
	}

	u, err := userRepo.FindUserByID(c.UserContext(), ac.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonOK(c, "ok", dto.MeResponse{})
	}
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	if !u.IsActive() || !u.IsStaff() {
		return helper.JsonOK(c, "ok", dto.MeResponse{})
	}

	p := &dto.Principal{ID: u.UserID.String(), Name: u.UserName, Role: string(u.UserRole)}
	if u.UserEmail != nil {
		p.Email = *u.UserEmail
	}
	return helper.JsonOK(c, "ok", dto.MeResponse{User: p})
}

// POST /auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if raw := helper.GetRawAccessToken(c); raw != "" {
		if err := ac.Svc.Logout(c.UserContext(), raw); err != nil {
			return helper.JsonAppError(c, err)
		}
	}
	helper.ClearAccessCookie(c)
	return helper.JsonOK(c, "Đã đăng xuất", nil)
}
