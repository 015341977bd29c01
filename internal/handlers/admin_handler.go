package handlers

import (
	"strconv"

	"github.com/brahdyssey/itimeline-backend/internal/dto"
	"github.com/brahdyssey/itimeline-backend/internal/middleware"
	"github.com/brahdyssey/itimeline-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminHandler serves the site-level moderation queue.
type AdminHandler struct {
	escalation *services.EscalationService
}

func NewAdminHandler(escalation *services.EscalationService) *AdminHandler {
	return &AdminHandler{escalation: escalation}
}

func (h *AdminHandler) ListQueue(c *fiber.Ctx) error {
	actorID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	resp, err := h.escalation.ListQueue(c.Context(), actorID, c.Query("status"), c.Query("report_type"), page, pageSize)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *AdminHandler) Accept(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("report_id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}
	actorID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	resp, err := h.escalation.Accept(c.Context(), actorID, reportID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *AdminHandler) Resolve(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("report_id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}
	actorID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.ResolveReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	resp, err := h.escalation.Resolve(c.Context(), actorID, reportID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}
