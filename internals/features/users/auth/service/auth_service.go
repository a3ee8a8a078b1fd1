// file: internals/features/users/auth/service/auth_service.go
package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"diemdanh_backend/internals/features/attendance/identity"
	authRepo "diemdanh_backend/internals/features/users/auth/repository"
	userModel "diemdanh_backend/internals/features/users/user/model"
	"diemdanh_backend/internals/helpers/apperr"
)

type EmailVerifier interface {
	VerifyEmail(ctx context.Context, idToken string) (string, error)
}

type Session struct {
	Token     string               `json:"access_token"`
	ExpiresAt time.Time            `json:"expires_at"`
	User      *userModel.UserModel `json:"user"`
}

// AuthService signs staff in. Attendees never get a session.
type AuthService struct {
	DB       *gorm.DB
	Resolver *identity.Resolver
	Verifier EmailVerifier
	Tokens   TokenIssuer
	Now      func() time.Time
}

func NewAuthService(db *gorm.DB, resolver *identity.Resolver, verifier EmailVerifier, tokens TokenIssuer) *AuthService {
	return &AuthService{DB: db, Resolver: resolver, Verifier: verifier, Tokens: tokens, Now: time.Now}
}

/* ==========================
   LOGIN GOOGLE
========================== */

func (s *AuthService) LoginGoogle(ctx context.Context, idToken string) (*Session, error) {
	if s.Verifier == nil {
		return nil, apperr.New(apperr.ErrUnauthorized, "Google ID token không hợp lệ")
	}
	email, err := s.Verifier.VerifyEmail(ctx, idToken)
	if err != nil {
		return nil, apperr.New(apperr.ErrUnauthorized, "Google ID token không hợp lệ")
	}
	u, err := s.Resolver.ResolveByEmail(ctx, email)
	return s.issue(u, err)
}

/* ==========================
   LOGIN USERNAME / PASSWORD
========================== */

func (s *AuthService) LoginPassword(ctx context.Context, username, password string) (*Session, error) {
	u, err := s.Resolver.ResolveByPassword(ctx, username, password)
	if errors.Is(err, identity.ErrUserNotFound) || errors.Is(err, identity.ErrMissingCredential) {
		return nil, apperr.New(apperr.ErrUnauthorized, "Sai tên đăng nhập hoặc mật khẩu")
	}
	return s.issue(u, err)
}

func (s *AuthService) issue(u *userModel.UserModel, err error) (*Session, error) {
	switch {
	case errors.Is(err, identity.ErrUserNotFound), errors.Is(err, identity.ErrAmbiguousIdentifier):
		return nil, apperr.New(apperr.ErrForbidden, "Tài khoản không có quyền truy cập")
	case errors.Is(err, identity.ErrUserDisabled):
		return nil, apperr.New(apperr.ErrForbidden, "Tài khoản đã bị vô hiệu hoá")
	case err != nil:
		return nil, err
	}
	if !u.IsStaff() {
		return nil, apperr.New(apperr.ErrForbidden, "Tài khoản không có quyền truy cập")
	}
	tok, exp, err := s.Tokens.Issue(u, s.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok, ExpiresAt: exp, User: u}, nil
}

/* ==========================
   LOGOUT / REVOCATION
========================== */

// Logout revokes the token's jti until its own expiry. Invalid tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	claims, err := s.Tokens.Parse(raw)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return authRepo.BlacklistToken(ctx, s.DB, claims.ID, claims.ExpiresAt.Time)
}

func (s *AuthService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	return authRepo.IsBlacklisted(ctx, s.DB, jti)
}
