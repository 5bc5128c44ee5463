package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds the services needed by the HTTP router.
type RouterServices struct {
	Webhooks WebhookProcessor
	// WebhookSecret enables HMAC verification when non-empty.
	WebhookSecret string
	Logger        *slog.Logger
}

// NewRouter creates and configures the HTTP handler chain.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	webhookHandlers := &WebhookHandlers{Svc: services.Webhooks, Secret: services.WebhookSecret}
	mux.HandleFunc("POST /webhook", webhookHandlers.Receive)
	mux.Handle("GET /health", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /health", http.HandlerFunc(healthHandler))

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = RequestID()(handler)
	handler = Recover(logger)(handler)
	return handler
}
