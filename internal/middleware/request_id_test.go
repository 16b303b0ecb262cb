package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestIDApp() *fiber.App {
	app := fiber.New()
	app.Use(RequestIDMiddleware())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	return app
}

func TestRequestIDGenerated(t *testing.T) {
	app := newRequestIDApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)

	_, err = uuid.Parse(resp.Header.Get("X-Request-ID"))
	assert.NoError(t, err, "generated request id must be a UUID")
}

func TestRequestIDHonorsValidHeader(t *testing.T) {
	app := newRequestIDApp()

	id := uuid.New().String()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", id)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, id, resp.Header.Get("X-Request-ID"))
}

func TestRequestIDReplacesNonUUIDHeader(t *testing.T) {
	app := newRequestIDApp()

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")

	resp, err := app.Test(req)
	require.NoError(t, err)

	got := resp.Header.Get("X-Request-ID")
	assert.NotEqual(t, "not-a-uuid", got)
	_, err = uuid.Parse(got)
	assert.NoError(t, err)
}
