// internals/features/users/auth/service/token_service.go
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	userModel "diemdanh_backend/internals/features/users/user/model"
)

var ErrTokenInvalid = errors.New("token invalid")

// Claims is the staff session carried in the access token.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	Name   string `json:"user_name"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	Secret []byte
	TTL    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) TokenIssuer {
	return TokenIssuer{Secret: []byte(secret), TTL: ttl}
}

// Issue signs an HS256 access token for u.
func (ti TokenIssuer) Issue(u *userModel.UserModel, now time.Time) (string, time.Time, error) {
	if len(ti.Secret) == 0 {
		return "", time.Time{}, errors.New("JWT_SECRET is empty")
	}
	exp := now.Add(ti.TTL)
	claims := Claims{
		UserID: u.UserID.String(),
		Role:   string(u.UserRole),
		Name:   u.UserName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.UserID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if u.UserEmail != nil {
		claims.Email = *u.UserEmail
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tok, exp, nil
}

// Parse rejects everything when no secret is configured.
func (ti TokenIssuer) Parse(raw string) (*Claims, error) {
	if len(ti.Secret) == 0 {
		return nil, ErrTokenInvalid
	}
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ti.Secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrTokenInvalid
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}
