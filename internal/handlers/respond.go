package handlers

import (
	"errors"
	"log/slog"

	"github.com/brahdyssey/itimeline-backend/internal/apperr"
	"github.com/brahdyssey/itimeline-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// fail maps a service error to the wire format. Taxonomy errors keep their
// code and status; anything else is a 500 with details withheld.
func fail(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return c.Status(ae.Status).JSON(dto.ErrorResponse{
			Error:   true,
			Code:    string(ae.Code),
			Message: ae.Message,
			Details: ae.Details,
		})
	}
	slog.Error("unhandled service error", "method", c.Method(), "path", c.Path(), "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error:   true,
		Code:    string(apperr.CodeInternal),
		Message: "Internal server error",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error:   true,
		Code:    string(apperr.CodeValidation),
		Message: message,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Unauthorized",
	})
}
