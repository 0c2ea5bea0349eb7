package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/payollar/payollar/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJwt = &config.Jwt{Secret: "middleware-secret", Expiry: time.Hour}

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Use(JwtProtected(testJwt))
	app.Get("/", func(c *fiber.Ctx) error {
		token := c.Locals("user").(*jwt.Token)
		claims := token.Claims.(jwt.MapClaims)
		return c.SendString(claims["user_id"].(string))
	})
	return app
}

func sign(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "42",
		"exp":     exp.Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJwtProtected_MissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := protectedApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJwtProtected_ValidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, testJwt.Secret, time.Now().Add(time.Hour)))
	resp, err := protectedApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJwtProtected_Rejected(t *testing.T) {
	tokens := map[string]string{
		"wrong secret": sign(t, "other-secret", time.Now().Add(time.Hour)),
		"expired":      sign(t, testJwt.Secret, time.Now().Add(-time.Hour)),
	}
	for name, token := range tokens {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := protectedApp().Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, name)
	}
}

func TestJwtError(t *testing.T) {
	for _, err := range []error{jwtware.ErrJWTMissingOrMalformed, errors.New("any other error")} {
		app := fiber.New()
		app.Use(func(c *fiber.Ctx) error {
			return jwtError(c, err)
		})
		resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, testErr)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "application/problem+json", resp.Header.Get(fiber.HeaderContentType))
	}
}
