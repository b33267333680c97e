package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedApp(manager *auth.JWTManager) *fiber.App {
	app := fiber.New()
	app.Use(RequireWriteToken(manager))
	handler := func(c *fiber.Ctx) error {
		subject, _ := c.Locals("token_subject").(string)
		return c.SendString("ok " + subject)
	}
	app.Get("/items", handler)
	app.Post("/items", handler)
	app.Delete("/items/1", handler)
	return app
}

func TestRequireWriteToken(t *testing.T) {
	manager := auth.NewJWTManager(auth.JWTConfig{Secret: "s3cret", Expiry: time.Hour, Issuer: "scouting-db"})
	token, _, err := manager.GenerateWriteToken("tester")
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{"reads are open", http.MethodGet, "/items", "", http.StatusOK},
		{"write without token", http.MethodPost, "/items", "", http.StatusUnauthorized},
		{"write with wrong scheme", http.MethodPost, "/items", "Token " + token, http.StatusUnauthorized},
		{"write with bad token", http.MethodDelete, "/items/1", "Bearer nope", http.StatusUnauthorized},
		{"write with token", http.MethodPost, "/items", "Bearer " + token, http.StatusOK},
	}

	app := newGuardedApp(manager)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireWriteToken_DisabledWithoutManager(t *testing.T) {
	app := newGuardedApp(nil)
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/items", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
