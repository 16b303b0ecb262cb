package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	app := fiber.New()
	app.Use(RateLimitMiddleware(db, 2, time.Minute))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	key := "rentmarket:rl:/ping:0.0.0.0"
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Minute).SetVal(true)

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	mock.ExpectIncr(key).SetVal(2)
	resp, err = app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	app := fiber.New()
	app.Use(RateLimitMiddleware(db, 2, time.Minute))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	mock.ExpectIncr("rentmarket:rl:/ping:0.0.0.0").SetVal(3)

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimitFailsOpenOnRedisError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	app := fiber.New()
	app.Use(RateLimitMiddleware(db, 2, time.Minute))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	mock.ExpectIncr("rentmarket:rl:/ping:0.0.0.0").SetErr(errors.New("redis down"))

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
