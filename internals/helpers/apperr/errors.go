// Package apperr holds the error taxonomy shared by services and controllers.
package apperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrForbiddenByWindow   = errors.New("check-in window closed")
	ErrConflict            = errors.New("conflict")
	ErrAmbiguousIdentifier = errors.New("ambiguous identifier")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
)

// Error pairs a sentinel kind with a user-facing message.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func New(kind error, msg string) error { return &Error{Kind: kind, Message: msg} }

func Newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(msg string) error { return New(ErrValidation, msg) }
func NotFound(msg string) error   { return New(ErrNotFound, msg) }
func Conflict(msg string) error   { return New(ErrConflict, msg) }

// Status maps an error to the HTTP status code.
func Status(err error) int {
	var fe *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, ErrValidation), errors.Is(err, ErrAmbiguousIdentifier):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbiddenByWindow), errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Message returns the user-facing text. Internal errors never leak details.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	if Status(err) == fiber.StatusNotFound {
		return "resource not found"
	}
	return "internal server error"
}

// IsDuplicateKey reports unique violations from Postgres (SQLSTATE 23505)
// and from drivers that only expose the message text.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "sqlstate 23505")
}
