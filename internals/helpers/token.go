// helpers/token.go
package helper

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const AccessCookie = "access_token"

// GetRawAccessToken mengembalikan access token dari:
// 1) Authorization header "Bearer <token>"
// 2) cookie "access_token"
func GetRawAccessToken(c *fiber.Ctx) string {
	if f := strings.Fields(c.Get(fiber.HeaderAuthorization)); len(f) == 2 && strings.EqualFold(f[0], "Bearer") {
		return strings.Trim(f[1], "\"'")
	}
	return strings.TrimSpace(c.Cookies(AccessCookie))
}

func SetAccessCookie(c *fiber.Ctx, token string, expires time.Time, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     AccessCookie,
		Value:    token,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
		Path:     "/",
		Expires:  expires,
	})
}

func ClearAccessCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     AccessCookie,
		Value:    "",
		HTTPOnly: true,
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
