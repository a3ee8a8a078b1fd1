// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	authService "diemdanh_backend/internals/features/users/auth/service"
	helper "diemdanh_backend/internals/helpers"
	"diemdanh_backend/internals/helpers/logging"
)

type AuthJWTOpts struct {
	Tokens authService.TokenIssuer
	// IsRevoked is optional; true rejects the token.
	IsRevoked func(ctx context.Context, jti string) (bool, error)
}

// AuthJWT requires a valid access token (Bearer header or cookie).
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - No token provided")
		}
		claims, err := o.Tokens.Parse(raw)
		if err != nil {
			logging.Ctx(c.UserContext()).Debug().Err(err).Msg("access token rejected")
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Invalid token")
		}
		if o.IsRevoked != nil {
			revoked, err := o.IsRevoked(c.UserContext(), claims.ID)
			if err != nil {
				logging.Ctx(c.UserContext()).Error().Err(err).Msg("❌ blacklist lookup failed")
				return helper.JsonError(c, fiber.StatusInternalServerError, "Không kiểm tra được phiên đăng nhập")
			}
			if revoked {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Token revoked")
			}
		}
		setClaims(c, claims)
		return c.Next()
	}
}

// OptionalAuth fills locals when a valid, unrevoked token is present and never rejects.
func OptionalAuth(o AuthJWTOpts) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := helper.GetRawAccessToken(c)
		if raw == "" {
			return c.Next()
		}
		claims, err := o.Tokens.Parse(raw)
		if err != nil {
			return c.Next()
		}
		if o.IsRevoked != nil {
			if revoked, err := o.IsRevoked(c.UserContext(), claims.ID); err != nil || revoked {
				return c.Next()
			}
		}
		setClaims(c, claims)
		return c.Next()
	}
}
