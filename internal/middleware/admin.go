package middleware

import (
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/identity"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// AdminRequired admits callers whose token subject or email is listed in the config,
// or requests carrying an X-Admin-Token that matches the configured bcrypt hash.
func AdminRequired(cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)
	adminSubjects := parseCSV(cfg.AdminSubjects)
	tokenHash := []byte(cfg.AdminTokenHash)

	return func(c *fiber.Ctx) error {
		if len(tokenHash) > 0 {
			if token := c.Get("X-Admin-Token"); token != "" {
				if bcrypt.CompareHashAndPassword(tokenHash, []byte(token)) == nil {
					return c.Next()
				}
				slog.Warn("rejected admin token", "request_id", c.Locals("requestid"))
			}
		}

		caller, err := identity.FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if contains(adminSubjects, caller.Subject, false) || (caller.Email != "" && contains(adminEmails, caller.Email, true)) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string, foldCase bool) bool {
	for _, item := range list {
		if item == val || (foldCase && strings.EqualFold(item, val)) {
			return true
		}
	}
	return false
}
