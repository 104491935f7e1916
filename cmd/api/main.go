package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/commitment-fund/backend/internal/config"
	"github.com/commitment-fund/backend/internal/db"
	"github.com/commitment-fund/backend/internal/events"
	apphttp "github.com/commitment-fund/backend/internal/http"
	"github.com/commitment-fund/backend/internal/http/handlers"
	"github.com/commitment-fund/backend/internal/mvx"
	"github.com/commitment-fund/backend/internal/repositories"
	"github.com/commitment-fund/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
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

	// Repositories
	commitmentRepo := repositories.NewCommitmentRepo(pool)

	// Events
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	txBuilder := mvx.NewTxBuilder(cfg.ContractAddress, cfg.ChainID)
	commitmentService := services.NewCommitmentService(commitmentRepo, txBuilder, log)

	// Handlers
	commitmentHandler := handlers.NewCommitmentHandler(commitmentService, cfg, log)
	txHandler := handlers.NewTxHandler(commitmentService, log)
	wsHub := handlers.NewWSHub(subscriber, log)

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

	apphttp.SetupRouter(app, cfg, log, rdb, commitmentHandler, txHandler, wsHub)

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
