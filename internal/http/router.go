package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rent-marketplace/backend/internal/config"
	"github.com/rent-marketplace/backend/internal/http/handlers"
	"github.com/rent-marketplace/backend/internal/middleware"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	propertyHandler *handlers.PropertyHandler,
	bookingHandler *handlers.BookingHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")

	// Auth (public): proof payload + TON Connect verification
	api.Post("/auth/proof-payload", authHandler.ProofPayload)
	api.Post("/auth/connect", authHandler.Connect)

	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	protected.Get("/me", authHandler.Me)
	protected.Post("/auth/disconnect", authHandler.Disconnect)

	// Properties
	protected.Post("/properties", propertyHandler.Mint)
	protected.Get("/properties", propertyHandler.List)
	protected.Get("/properties/:id", propertyHandler.Get)
	protected.Post("/properties/:id/toggle-status", propertyHandler.ToggleStatus)
	protected.Post("/properties/:id/reserve", propertyHandler.Reserve)
	protected.Post("/properties/:id/escrow/withdraw-wallet", propertyHandler.SetWithdrawWallet)

	// Booking lifecycle
	protected.Get("/properties/:id/booking", bookingHandler.Get)
	protected.Post("/properties/:id/booking", bookingHandler.Create)
	protected.Post("/properties/:id/booking/confirm", bookingHandler.Confirm)
	protected.Post("/properties/:id/booking/pay", bookingHandler.Pay)
	protected.Post("/properties/:id/booking/reject", bookingHandler.Reject)
	protected.Post("/properties/:id/booking/cancel", bookingHandler.Cancel)
	protected.Get("/properties/:id/payment", bookingHandler.GetPaymentInfo)
	protected.Get("/properties/:id/events", bookingHandler.GetEvents)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
