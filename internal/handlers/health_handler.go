package handlers

import (
	"time"

	"github.com/brahdyssey/itimeline-backend/internal/database"
	"github.com/brahdyssey/itimeline-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	rdb *redis.Client
}

func NewHealthHandler(rdb *redis.Client) *HealthHandler {
	return &HealthHandler{rdb: rdb}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "up",
		Cache:     "disabled",
	}
	if err := database.Ping(); err != nil {
		resp.Status = "degraded"
		resp.DB = "down"
	}
	if h.rdb != nil {
		resp.Cache = "up"
		if err := h.rdb.Ping(c.Context()).Err(); err != nil {
			resp.Status = "degraded"
			resp.Cache = "down"
		}
	}
	status := fiber.StatusOK
	if resp.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}
