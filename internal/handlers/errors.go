package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/identity"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

// callerFrom resolves the token identity or writes a 401.
func callerFrom(c *fiber.Ctx) (identity.Caller, bool) {
	caller, err := identity.FromContext(c)
	if err != nil {
		_ = errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
		return identity.Caller{}, false
	}
	return caller, true
}

func techniqueIDParam(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = errorJSON(c, fiber.StatusBadRequest, "Invalid technique id")
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors to status codes. Anything unrecognized is a
// storage failure: it is logged, reported to Sentry and hidden from the client.
func respondError(c *fiber.Ctx, op string, caller identity.Caller, err error, attrs ...any) error {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, services.ErrTechniqueNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Technique not found")
	case errors.Is(err, services.ErrInvalidProfile):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	args := append([]any{
		"operation", op,
		"subject", caller.Subject,
		"request_id", c.Locals("requestid"),
		"error", err,
	}, attrs...)
	slog.Error("request failed", args...)

	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}
