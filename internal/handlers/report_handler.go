package handlers

import (
	"strconv"

	"github.com/brahdyssey/itimeline-backend/internal/dto"
	"github.com/brahdyssey/itimeline-backend/internal/middleware"
	"github.com/brahdyssey/itimeline-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reports    *services.ReportService
	resolution *services.ResolutionService
}

func NewReportHandler(reports *services.ReportService, resolution *services.ResolutionService) *ReportHandler {
	return &ReportHandler{reports: reports, resolution: resolution}
}

func timelineParam(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("timeline_id"))
}

func reportParam(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("report_id"))
}

// SubmitPost accepts a post report; authentication is optional, anonymous
// reporters are allowed.
func (h *ReportHandler) SubmitPost(c *fiber.Ctx) error {
	timelineID, err := timelineParam(c)
	if err != nil {
		return badRequest(c, "Invalid timeline ID")
	}
	var req dto.SubmitPostReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	resp, err := h.reports.SubmitPost(c.Context(), timelineID, middleware.OptionalUserID(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *ReportHandler) SubmitUser(c *fiber.Ctx) error {
	var req dto.SubmitUserReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	resp, err := h.reports.SubmitUser(c.Context(), middleware.OptionalUserID(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	timelineID, err := timelineParam(c)
	if err != nil {
		return badRequest(c, "Invalid timeline ID")
	}
	actorID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	resp, err := h.reports.List(c.Context(), actorID, timelineID, c.Query("status"), c.Query("report_type"), page, pageSize)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	timelineID, err := timelineParam(c)
	if err != nil {
		return badRequest(c, "Invalid timeline ID")
	}
	reportID, err := reportParam(c)
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}
	actorID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ticket, err := h.reports.Get(c.Context(), actorID, timelineID, reportID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ticket)
}

func (h *ReportHandler) Accept(c *fiber.Ctx) error {
	timelineID, err := timelineParam(c)
	if err != nil {
		return badRequest(c, "Invalid timeline ID")
	}
	reportID, err := reportParam(c)
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}
	actorID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	resp, err := h.resolution.Accept(c.Context(), actorID, timelineID, reportID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *ReportHandler) Escalate(c *fiber.Ctx) error {
	timelineID, err := timelineParam(c)
	if err != nil {
		return badRequest(c, "Invalid timeline ID")
	}
	reportID, err := reportParam(c)
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}
	actorID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.EscalateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	resp, err := h.resolution.Escalate(c.Context(), actorID, timelineID, reportID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *ReportHandler) Resolve(c *fiber.Ctx) error {
	timelineID, err := timelineParam(c)
	if err != nil {
		return badRequest(c, "Invalid timeline ID")
	}
	reportID, err := reportParam(c)
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
	resp, err := h.resolution.Resolve(c.Context(), actorID, timelineID, reportID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}
