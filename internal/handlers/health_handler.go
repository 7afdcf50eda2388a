package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	ping           func() error
	catalogService *services.CatalogService
}

func NewHealthHandler(ping func() error, catalogService *services.CatalogService) *HealthHandler {
	return &HealthHandler{ping: ping, catalogService: catalogService}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "ok",
	}

	if err := h.ping(); err != nil {
		resp.Status = "degraded"
		resp.DB = "unhealthy: " + err.Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}

	if n, err := h.catalogService.Count(c.UserContext()); err == nil {
		resp.Techniques = n
	}
	return c.JSON(resp)
}
