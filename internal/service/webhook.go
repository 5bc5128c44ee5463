// Package service contains the business logic for routing webhook jobs and
// redelivering failed webhook deliveries.
package service

import (
	"context"
	"log/slog"

	"github.com/target/runner-webhook-router/internal/core"
	"github.com/target/runner-webhook-router/internal/domain/model"
	apperrors "github.com/target/runner-webhook-router/internal/errors"
	"github.com/target/runner-webhook-router/internal/observability/metrics"
	"github.com/target/runner-webhook-router/internal/observability/statsd"
	"github.com/target/runner-webhook-router/internal/routing"
	"github.com/target/runner-webhook-router/internal/webhook"
)

// Observability groups the optional logging and metrics dependencies shared
// by the services in this package.
type Observability struct {
	Logger  *slog.Logger
	Metrics statsd.Sink
}

func (o Observability) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// WebhookServiceOptions groups dependencies for WebhookService.
type WebhookServiceOptions struct {
	Publisher core.QueuePublisher
	Routes    *routing.Snapshot
	Observe   Observability
}

// WebhookService translates verified webhook payloads into jobs and routes
// them to flavor queues. Signature verification happens in the transport
// layer before payloads reach this service.
type WebhookService struct {
	publisher core.QueuePublisher
	routes    *routing.Snapshot
	observe   Observability
}

// NewWebhookService constructs a new WebhookService.
func NewWebhookService(opts WebhookServiceOptions) *WebhookService {
	if opts.Publisher == nil {
		panic("QueuePublisher is required")
	}
	if opts.Routes == nil {
		panic("routing Snapshot is required")
	}
	return &WebhookService{
		publisher: opts.Publisher,
		routes:    opts.Routes,
		observe:   opts.Observe,
	}
}

// Process parses one webhook event, routes the job, and publishes it to its
// flavor queue. Jobs that are not in the queued state are acknowledged and
// dropped: later lifecycle events for the same workflow job carry no routing
// work. A nil return means the delivery is fully handled.
func (s *WebhookService) Process(ctx context.Context, event string, payload []byte) error {
	job, err := webhook.ParseJob(event, payload)
	if err != nil {
		metrics.EmitWebhookProcessed(s.observe.Metrics, metrics.WebhookMetric{
			Result: metrics.ResultError,
			Err:    err,
		})
		return err
	}

	if job.Status != model.JobStatusQueued {
		s.observe.logger().Debug("dropping job not in queued state",
			"status", job.Status, "run_url", job.RunURL)
		metrics.EmitWebhookProcessed(s.observe.Metrics, metrics.WebhookMetric{
			Result: metrics.ResultDropped,
		})
		return nil
	}

	flavor, err := routing.Route(job, s.routes.Load())
	if err != nil {
		s.observe.logger().Warn("failed to route job",
			"labels", job.Labels, "run_url", job.RunURL, "error", err)
		metrics.EmitWebhookProcessed(s.observe.Metrics, metrics.WebhookMetric{
			Result: metrics.ResultError,
			Err:    err,
		})
		return err
	}

	if err := s.publisher.Publish(ctx, job, flavor); err != nil {
		metrics.EmitWebhookProcessed(s.observe.Metrics, metrics.WebhookMetric{
			Flavor: flavor,
			Result: metrics.ResultError,
			Err:    err,
		})
		return apperrors.Wrapf(err, apperrors.ErrCodePublish, "publish job to flavor %s", flavor)
	}

	s.observe.logger().Info("routed job",
		"flavor", flavor, "labels", job.Labels, "run_url", job.RunURL)
	metrics.EmitWebhookProcessed(s.observe.Metrics, metrics.WebhookMetric{
		Flavor: flavor,
		Result: metrics.ResultSuccess,
	})
	return nil
}
