package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/runner-webhook-router/config"
	httpx "github.com/target/runner-webhook-router/internal/http"
	"github.com/target/runner-webhook-router/internal/service"
)

// HTTPServerOptions contains configuration for the HTTP server.
type HTTPServerOptions struct {
	Config   *config.AppConfig
	Webhooks *service.WebhookService
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(opts HTTPServerOptions) *http.Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := opts.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Webhooks:      opts.Webhooks,
		WebhookSecret: appCfg.Routing.WebhookSecret,
		Logger:        logger,
	})

	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  appCfg.HTTP.ReadTimeout,
		WriteTimeout: appCfg.HTTP.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownOptions contains dependencies for HTTP server shutdown.
type ShutdownOptions struct {
	Context context.Context
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(opts ShutdownOptions) error {
	if opts.Server == nil {
		return nil
	}

	if opts.Logger != nil {
		opts.Logger.Info("shutting down HTTP server")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(opts.Context, timeout)
	defer cancel()

	if err := opts.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if opts.Logger != nil {
		opts.Logger.Info("HTTP server stopped")
	}

	return nil
}
