package main

import (
	"context"
	"os"

	"github.com/riskibarqy/career-league/internal/app"
	"github.com/riskibarqy/career-league/internal/config"
	"github.com/riskibarqy/career-league/internal/platform/logging"
)

func main() {
	logger := logging.NewJSONTo(os.Stderr, logging.ParseLevel(os.Getenv("APP_LOG_LEVEL")))
	defer func() { _ = logger.Sync() }()

	build := func(ctx context.Context) (*app.Services, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		return app.NewServices(ctx, cfg, logger)
	}

	if err := newRootCmd(build, os.Stdout).Execute(); err != nil {
		logger.Error("economyctl failed", "error", err)
		os.Exit(1)
	}
}
