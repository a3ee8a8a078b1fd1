// internals/middlewares/auth/claims_utils.go
package auth

import (
	"github.com/gofiber/fiber/v2"

	authService "diemdanh_backend/internals/features/users/auth/service"
	helper "diemdanh_backend/internals/helpers"
)

func setClaims(c *fiber.Ctx, claims *authService.Claims) {
	c.Locals(helper.LocUserID, claims.UserID)
	c.Locals(helper.LocUserRole, claims.Role)
	c.Locals(helper.LocUserName, claims.Name)
	c.Locals(helper.LocEmail, claims.Email)
	c.Locals("claims", claims)
}

// ClaimsFrom returns the claims set by AuthJWT or OptionalAuth, nil otherwise.
func ClaimsFrom(c *fiber.Ctx) *authService.Claims {
	claims, _ := c.Locals("claims").(*authService.Claims)
	return claims
}
