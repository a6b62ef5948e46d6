package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// AppError is a domain failure with a stable machine-readable code. Handlers
// and domain functions return it; the HTTP mapping happens only in ErrorJSON.
type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// ErrorJSON maps an error to the JSON error envelope. Unknown errors are
// logged with full detail and surfaced as a generic internal error.
func ErrorJSON(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(fiber.Map{
			"status":  false,
			"code":    appErr.Code,
			"message": appErr.Message,
			"path":    c.Path(),
		})
	}

	log.Printf("Internal error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status":  false,
		"code":    "INTERNAL",
		"message": "Internal server error!",
		"path":    c.Path(),
	})
}
