package http

import (
	"time"

	"github.com/commitment-fund/backend/internal/config"
	"github.com/commitment-fund/backend/internal/http/handlers"
	"github.com/commitment-fund/backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	commitmentHandler *handlers.CommitmentHandler,
	txHandler *handlers.TxHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute))

	// Commitments (read side, served from the snapshot store)
	api.Get("/commitments", commitmentHandler.ListCommitments)
	api.Get("/commitments/:id", commitmentHandler.GetCommitment)
	api.Get("/commitments/:id/eligibility", commitmentHandler.GetEligibility)
	api.Post("/commitments/validate", commitmentHandler.ValidateCreate)

	// Transaction building (payloads are unsigned; the wallet signs)
	api.Post("/tx/create", txHandler.BuildCreateTx)
	api.Post("/tx/submit-proof", txHandler.BuildSubmitProofTx)
	api.Post("/tx/finalize", txHandler.BuildFinalizeTx)
	api.Post("/tx/claim", txHandler.BuildClaimTx)
	api.Post("/tx/cancel", txHandler.BuildCancelTx)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
