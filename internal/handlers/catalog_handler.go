package handlers

import (
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/identity"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Seed is admin-only; the caller may be an admin-token request without a subject.
func (h *CatalogHandler) Seed(c *fiber.Ctx) error {
	caller, _ := identity.FromContext(c)

	resp, err := h.catalogService.Seed(c.UserContext())
	if err != nil {
		return respondError(c, "seed_catalog", caller, err)
	}
	return c.JSON(resp)
}

func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return nil
	}

	categories, err := h.catalogService.Categories(c.UserContext())
	if err != nil {
		return respondError(c, "list_categories", caller, err)
	}
	return c.JSON(categories)
}
