package handlers

import (
	"github.com/brahdyssey/itimeline-backend/internal/dto"
	"github.com/brahdyssey/itimeline-backend/internal/middleware"
	"github.com/brahdyssey/itimeline-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MemberHandler struct {
	members *services.MemberService
}

func NewMemberHandler(members *services.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

func memberParam(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("user_id"))
}

func (h *MemberHandler) List(c *fiber.Ctx) error {
	timelineID, err := timelineParam(c)
	if err != nil {
		return badRequest(c, "Invalid timeline ID")
	}
	actorID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	members, err := h.members.List(c.Context(), actorID, timelineID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"members": members, "count": len(members)})
}

func (h *MemberHandler) Add(c *fiber.Ctx) error {
	timelineID, err := timelineParam(c)
	if err != nil {
		return badRequest(c, "Invalid timeline ID")
	}
	actorID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	member, err := h.members.Add(c.Context(), actorID, timelineID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

func (h *MemberHandler) Remove(c *fiber.Ctx) error {
	timelineID, err := timelineParam(c)
	if err != nil {
		return badRequest(c, "Invalid timeline ID")
	}
	userID, err := memberParam(c)
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	actorID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if err := h.members.Remove(c.Context(), actorID, timelineID, userID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"removed": true})
}

func (h *MemberHandler) UpdateRole(c *fiber.Ctx) error {
	timelineID, err := timelineParam(c)
	if err != nil {
		return badRequest(c, "Invalid timeline ID")
	}
	userID, err := memberParam(c)
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	actorID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.UpdateMemberRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	member, err := h.members.UpdateRole(c.Context(), actorID, timelineID, userID, req.Role)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(member)
}

func (h *MemberHandler) SetBlocked(c *fiber.Ctx) error {
	timelineID, err := timelineParam(c)
	if err != nil {
		return badRequest(c, "Invalid timeline ID")
	}
	userID, err := memberParam(c)
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	actorID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.BlockMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	member, err := h.members.SetBlocked(c.Context(), actorID, timelineID, userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(member)
}
