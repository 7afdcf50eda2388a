package handlers

import (
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Sync upserts the caller's profile. The subject always comes from the token; the
// email falls back to the token's email claim when the body omits it.
func (h *UserHandler) Sync(c *fiber.Ctx) error {
	caller, ok := callerFrom(c)
	if !ok {
		return nil
	}

	var req dto.SyncUserRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	req.Subject = caller.Subject
	if req.Email == "" {
		req.Email = caller.Email
	}

	id, err := h.userService.Sync(c.UserContext(), &req)
	if err != nil {
		return respondError(c, "sync_user", caller, err)
	}
	return c.JSON(dto.IDResponse{ID: id})
}
