package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoIdentity = errors.New("no caller identity in context")

// Caller is the authenticated principal a request acts for.
// Subject is the external identity provider's stable user id.
type Caller struct {
	Subject string
	Email   string
}

// Anonymous reports whether no subject was resolved.
func (c Caller) Anonymous() bool {
	return c.Subject == ""
}

// FromContext extracts the caller from the JWT stored in Fiber locals by the auth middleware.
func FromContext(c *fiber.Ctx) (Caller, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Caller{}, ErrNoIdentity
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Caller{}, errors.New("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Caller{}, errors.New("missing sub claim")
	}
	email, _ := claims["email"].(string)

	return Caller{Subject: sub, Email: email}, nil
}
