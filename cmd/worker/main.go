package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/career-league/internal/app"
	"github.com/riskibarqy/career-league/internal/config"
	"github.com/riskibarqy/career-league/internal/observability"
	"github.com/riskibarqy/career-league/internal/platform/logging"
	"github.com/riskibarqy/career-league/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName+"-worker")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTelemetry, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := app.NewServices(ctx, cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := services.Close(); err != nil {
			logger.Warn("close services", "error", err)
		}
	}()

	var locker worker.Locker
	if services.SweepLock != nil {
		locker = services.SweepLock
	} else {
		logger.Warn("redis disabled, sweeping without a lease", "hint", "run a single worker replica")
	}

	worker.NewSweeper(services.Auction, locker, worker.SweeperConfig{
		Interval: cfg.AuctionSweepInterval,
		Batch:    cfg.AuctionSweepBatch,
		LockTTL:  cfg.SweepLockTTL,
	}, logger.Named("sweeper")).Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Warn("shutdown uptrace", "error", err)
	}
}
