package identity

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, token *jwt.Token) (Caller, error) {
	t.Helper()
	app := fiber.New()
	var (
		caller Caller
		err    error
	)
	app.Get("/", func(c *fiber.Ctx) error {
		if token != nil {
			c.Locals("user", token)
		}
		caller, err = FromContext(c)
		return c.SendStatus(fiber.StatusNoContent)
	})
	_, testErr := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, testErr)
	return caller, err
}

func TestFromContext(t *testing.T) {
	caller, err := resolve(t, &jwt.Token{Claims: jwt.MapClaims{"sub": "user_2abc", "email": "a@b.co"}})
	require.NoError(t, err)
	assert.Equal(t, Caller{Subject: "user_2abc", Email: "a@b.co"}, caller)
	assert.False(t, caller.Anonymous())
}

func TestFromContextWithoutToken(t *testing.T) {
	caller, err := resolve(t, nil)
	assert.ErrorIs(t, err, ErrNoIdentity)
	assert.True(t, caller.Anonymous())
}

func TestFromContextMissingSubject(t *testing.T) {
	_, err := resolve(t, &jwt.Token{Claims: jwt.MapClaims{"email": "a@b.co"}})
	assert.Error(t, err)
}
