package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/brickfund/backend/internal/config"
	"github.com/brickfund/backend/internal/db"
	"github.com/brickfund/backend/internal/events"
	apphttp "github.com/brickfund/backend/internal/http"
	"github.com/brickfund/backend/internal/http/handlers"
	"github.com/brickfund/backend/internal/ledger"
	"github.com/brickfund/backend/internal/metrics"
	"github.com/brickfund/backend/internal/models"
	"github.com/brickfund/backend/internal/repositories"
	"github.com/brickfund/backend/internal/services"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	var masterAddr models.Address
	if cfg.MasterAddress != "" {
		masterAddr, err = models.ParseAddress(cfg.MasterAddress)
		if err != nil {
			log.Fatal("invalid MASTER_ADDRESS", zap.Error(err))
		}
	}

	// Repositories
	propertyRepo := repositories.NewPropertyRepo(pool)
	vaultRepo := repositories.NewVaultRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)
	ldg := ledger.NewPostgres(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	m := metrics.New()
	escrowService := services.NewEscrowService(vaultRepo, paymentRepo, auditRepo, ldg, publisher, m, masterAddr, log)
	registryService := services.NewRegistryService(propertyRepo, auditRepo, publisher, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg, log)
	propertyHandler := handlers.NewPropertyHandler(registryService, log)
	escrowHandler := handlers.NewEscrowHandler(escrowService, log)
	accountHandler := handlers.NewAccountHandler(escrowService, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, propertyHandler, escrowHandler, accountHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
