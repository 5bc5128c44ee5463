package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/target/runner-webhook-router/config"
	"github.com/target/runner-webhook-router/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	return bootstrap.Run(ctx, bootstrap.RunOptions{
		Config: &cfg,
		Logger: logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting webhook router",
		"addr", cfg.HTTP.Addr,
		"default_flavor", cfg.Routing.DefaultFlavor,
		"flavor_mappings", len(cfg.Routing.FlavorLabels),
		"metrics_enabled", cfg.Observability.Metrics.IsEnabled())
}
