package handlers

import (
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type TechniqueHandler struct {
	progressService *services.ProgressService
}

func NewTechniqueHandler(progressService *services.ProgressService) *TechniqueHandler {
	return &TechniqueHandler{progressService: progressService}
}

// List returns the catalog merged with the caller's progress. A category query
// parameter, even an empty one, restricts the result to exact matches.
func (h *TechniqueHandler) List(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return nil
	}

	var (
		items []dto.EnrichedTechnique
		err   error
	)
	if c.Context().QueryArgs().Has("category") {
		items, err = h.progressService.ListTechniquesByCategory(c.UserContext(), caller, c.Query("category"))
	} else {
		items, err = h.progressService.ListTechniques(c.UserContext(), caller)
	}
	if err != nil {
		return respondError(c, "list_techniques", caller, err)
	}
	return c.JSON(items)
}

func (h *TechniqueHandler) SetLearned(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return nil
	}
	techniqueID, ok := techniqueIDParam(c)
	if !ok {
		return nil
	}

	var req dto.SetLearnedRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Learned == nil {
		return errorJSON(c, fiber.StatusBadRequest, "learned is required")
	}

	id, err := h.progressService.SetLearned(c.UserContext(), caller, techniqueID, *req.Learned)
	if err != nil {
		return respondError(c, "set_learned", caller, err, "technique_id", techniqueID.String())
	}
	return c.JSON(dto.IDResponse{ID: id})
}

func (h *TechniqueHandler) SetNotes(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return nil
	}
	techniqueID, ok := techniqueIDParam(c)
	if !ok {
		return nil
	}

	var req dto.SetNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Notes == nil {
		return errorJSON(c, fiber.StatusBadRequest, "notes is required")
	}

	id, err := h.progressService.SetNotes(c.UserContext(), caller, techniqueID, *req.Notes)
	if err != nil {
		return respondError(c, "set_notes", caller, err, "technique_id", techniqueID.String())
	}
	return c.JSON(dto.IDResponse{ID: id})
}
