package helper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ✅ Parse body + validasi struct (validator.v10).
// The returned error is meant for ValidationError.
func BindAndValidate(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body không hợp lệ")
	}
	if n, ok := dst.(interface{ Normalize() }); ok {
		n.Normalize()
	}
	return validate.Struct(dst)
}

// ✅ Khusus error validasi (validator.v10)
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	fields := make(map[string][]string, len(ve))
	for _, fe := range ve {
		name := lowerFirst(fe.Field())
		fields[name] = append(fields[name], tagMessage(fe))
	}
	return JsonValidationError(c, fields)
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "bắt buộc"
	case "oneof":
		return fmt.Sprintf("phải là một trong: %s", fe.Param())
	case "max":
		return fmt.Sprintf("tối đa %s", fe.Param())
	case "min":
		return fmt.Sprintf("tối thiểu %s", fe.Param())
	case "email":
		return "email không hợp lệ"
	case "uuid":
		return "uuid không hợp lệ"
	case "numeric", "len":
		return "định dạng không hợp lệ"
	}
	return fe.Tag()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
