package middleware

import (
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/bjj-tracker/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected verifies identity-provider tokens. A JWKS URL takes precedence over the
// shared HS256 secret so RS256 provider tokens can be checked without key distribution.
func JWTProtected(cfg *config.Config) fiber.Handler {
	jc := jwtware.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	}
	if cfg.JWTJWKSURL != "" {
		jc.JWKSetURLs = []string{cfg.JWTJWKSURL}
	} else {
		jc.SigningKey = jwtware.SigningKey{Key: []byte(cfg.JWTSecret)}
	}
	return jwtware.New(jc)
}
