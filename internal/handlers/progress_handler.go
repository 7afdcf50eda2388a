package handlers

import (
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProgressHandler struct {
	progressService *services.ProgressService
}

func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (h *ProgressHandler) Reset(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return nil
	}

	n, err := h.progressService.ResetProgress(c.UserContext(), caller)
	if err != nil {
		return respondError(c, "reset_progress", caller, err)
	}
	return c.JSON(dto.ResetResponse{Reset: n})
}

func (h *ProgressHandler) Summary(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return nil
	}

	var category *string
	if c.Context().QueryArgs().Has("category") {
		v := c.Query("category")
		category = &v
	}

	summary, err := h.progressService.Summary(c.UserContext(), caller, category)
	if err != nil {
		return respondError(c, "progress_summary", caller, err)
	}
	return c.JSON(summary)
}
