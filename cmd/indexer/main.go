package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/commitment-fund/backend/internal/config"
	"github.com/commitment-fund/backend/internal/db"
	"github.com/commitment-fund/backend/internal/events"
	"github.com/commitment-fund/backend/internal/mvx"
	"github.com/commitment-fund/backend/internal/repositories"
	"github.com/commitment-fund/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.ContractAddress == "" {
		log.Fatal("CONTRACT_ADDRESS is required")
	}

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	commitmentRepo := repositories.NewCommitmentRepo(pool)
	publisher := events.NewRedisPublisher(rdb, log)
	chain := mvx.NewClient(cfg.GatewayURL, cfg.ContractAddress, log)
	syncService := services.NewSyncService(chain, commitmentRepo, publisher, log)

	log.Info("commitment indexer started",
		zap.String("gateway", cfg.GatewayURL),
		zap.String("contract", cfg.ContractAddress),
		zap.Duration("poll_interval", cfg.PollInterval),
	)

	// Prime the store before the first tick so the API is not empty
	// for a full interval after a cold start.
	if err := syncService.Sync(ctx); err != nil {
		log.Error("initial sync failed", zap.Error(err))
	}

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			if err := syncService.Sync(ctx); err != nil {
				log.Error("sync cycle failed", zap.Error(err))
			}
		case <-sigCh:
			log.Info("shutting down commitment indexer")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}
