package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/target/runner-webhook-router/config"
	"github.com/target/runner-webhook-router/internal/adapters/redisqueue"
	"github.com/target/runner-webhook-router/internal/observability/statsd"
	"github.com/target/runner-webhook-router/internal/routing"
	"github.com/target/runner-webhook-router/internal/service"
)

// RunOptions contains dependencies for running the router process.
type RunOptions struct {
	Config *config.AppConfig
	Logger *slog.Logger
}

// BuildRoutingTable compiles the routing configuration into a table.
func BuildRoutingTable(cfg config.RoutingConfig) (*routing.Table, error) {
	return routing.BuildTable(routing.TableOptions{
		Mapping:       cfg.FlavorLabels,
		IgnoreLabels:  cfg.IgnoreLabels,
		DefaultFlavor: cfg.DefaultFlavor,
	})
}

// Run wires the router and blocks until the process receives SIGINT or
// SIGTERM. SIGHUP reloads the routing table from the environment without
// dropping in-flight requests.
func Run(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	table, err := BuildRoutingTable(cfg.Routing)
	if err != nil {
		return fmt.Errorf("build routing table: %w", err)
	}
	snap := routing.NewSnapshot(table)
	logger.Info("routing table loaded",
		"flavors", table.Flavors(), "default_flavor", table.DefaultFlavor())

	redisClient, err := ConnectRedis(RedisOptions{Config: cfg.Redis, Logger: logger})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.Error("close redis failed", "error", cerr)
		}
	}()

	sink, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.Metrics.IsEnabled(),
		Address: cfg.Observability.Metrics.StatsdAddress,
		Prefix:  cfg.Observability.Metrics.StatsdPrefix,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("init statsd: %w", err)
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			logger.Error("close statsd failed", "error", cerr)
		}
	}()

	webhookSvc := service.NewWebhookService(service.WebhookServiceOptions{
		Publisher: redisqueue.NewPublisherWithPrefix(redisClient, cfg.Redis.StreamPrefix),
		Routes:    snap,
		Observe:   service.Observability{Logger: logger, Metrics: sink},
	})

	server := StartHTTPServer(HTTPServerOptions{
		Config:   cfg,
		Webhooks: webhookSvc,
		Logger:   logger,
	})

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				reloadRoutingTable(logger, snap)
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		return ShutdownHTTPServer(ShutdownOptions{
			Context: context.Background(),
			Server:  server,
			Timeout: cfg.HTTP.ShutdownTimeout,
			Logger:  logger,
		})
	})

	return g.Wait()
}

// reloadRoutingTable re-reads the environment and swaps in a fresh routing
// table. Any failure keeps the currently loaded table.
func reloadRoutingTable(logger *slog.Logger, snap *routing.Snapshot) {
	// Overload so edits to the .env file are picked up on reload.
	if err := godotenv.Overload(); err != nil && !os.IsNotExist(err) {
		logger.Error("reload: read .env failed", "error", err)
		return
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		logger.Error("reload: parse config failed", "error", err)
		return
	}
	cfg.Sanitize()

	table, err := BuildRoutingTable(cfg.Routing)
	if err != nil {
		logger.Error("reload: build routing table failed", "error", err)
		return
	}

	snap.Store(table)
	logger.Info("routing table reloaded",
		"flavors", table.Flavors(), "default_flavor", table.DefaultFlavor())
}
