package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError dipakai sebagai fiber ErrorHandler: semua error yang lolos
// dari handler dirender dengan shape JsonError yang sama.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonAppError(c, err)
}
