package handlers

import (
	"github.com/brahdyssey/itimeline-backend/internal/middleware"
	"github.com/brahdyssey/itimeline-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// PassportHandler serves the per-user membership mirror that the timeline
// read path consumes.
type PassportHandler struct {
	passports *services.PassportService
}

func NewPassportHandler(passports *services.PassportService) *PassportHandler {
	return &PassportHandler{passports: passports}
}

func (h *PassportHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	passport, err := h.passports.Get(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(passport)
}

// Sync rebuilds the caller's passport from the membership tables.
func (h *PassportHandler) Sync(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	memberships, err := h.passports.Sync(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"synced": true, "memberships": memberships})
}
