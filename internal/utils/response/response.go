// Package response writes the JSON envelopes every handler answers with:
// {"message", "data"} on success and {"error"} on failure.
package response

import (
	"github.com/gofiber/fiber/v2"

	domainerrors "gridiron/internal/errors"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// ErrorWith answers status with the error message plus extra fields.
func ErrorWith(c *fiber.Ctx, status int, message string, fields fiber.Map) error {
	body := fiber.Map{"error": message}
	for k, v := range fields {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// FromError answers with the status and public message mapped from err.
func FromError(c *fiber.Ctx, err error) error {
	return Error(c, domainerrors.HTTPStatus(err), domainerrors.Message(err))
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *fiber.Ctx) error {
	return Error(c, fiber.StatusForbidden, "Insufficient permissions")
}

func ValidationError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}
