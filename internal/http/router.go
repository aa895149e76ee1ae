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

	"github.com/brickfund/backend/internal/config"
	"github.com/brickfund/backend/internal/http/handlers"
	"github.com/brickfund/backend/internal/middleware"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	propertyHandler *handlers.PropertyHandler,
	escrowHandler *handlers.EscrowHandler,
	accountHandler *handlers.AccountHandler,
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

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Prometheus
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/token", authHandler.Token)

	// Rate-limited endpoints
	api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute))

	// Registry reads (public): метаданные и балансы пулов и так видны
	// всем в леджере
	api.Get("/properties", propertyHandler.ListProperties)
	api.Get("/properties/:id", propertyHandler.GetProperty)
	api.Get("/properties/:id/vault", escrowHandler.GetVault)
	api.Get("/properties/:id/events", escrowHandler.PropertyEvents)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// Account
	protected.Get("/me/account", accountHandler.GetAccount)
	protected.Get("/me/payments", accountHandler.MyPayments)

	// Registry writes
	protected.Post("/properties", propertyHandler.RegisterProperty)

	// Escrow
	protected.Post("/properties/:id/fund", escrowHandler.Fund)
	protected.Post("/properties/:id/withdraw", escrowHandler.Withdraw)
	protected.Post("/properties/:id/withdraw-master", escrowHandler.WithdrawMaster)
	protected.Get("/properties/:id/payment", escrowHandler.GetPayment)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
