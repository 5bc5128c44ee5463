package service

import (
	"context"
	"time"

	"github.com/target/runner-webhook-router/internal/core"
	apperrors "github.com/target/runner-webhook-router/internal/errors"
	"github.com/target/runner-webhook-router/internal/observability/metrics"
	"github.com/target/runner-webhook-router/internal/webhook"
)

// Deliveries are only worth replaying for the event and action the router
// acts on; everything else would be dropped on arrival anyway.
const redeliverAction = "queued"

// RedeliveryServiceOptions groups dependencies for RedeliveryService.
type RedeliveryServiceOptions struct {
	API     core.DeliveryAPI
	Observe Observability
}

// RedeliveryService replays failed webhook deliveries within a recent time
// window. Runs are idempotent on the provider side in the sense that a
// redelivered job re-enters the normal routing path, where non-queued and
// duplicate lifecycle events are dropped.
type RedeliveryService struct {
	api     core.DeliveryAPI
	observe Observability
	now     func() time.Time
}

// NewRedeliveryService constructs a new RedeliveryService.
func NewRedeliveryService(opts RedeliveryServiceOptions) *RedeliveryService {
	if opts.API == nil {
		panic("DeliveryAPI is required")
	}
	return &RedeliveryService{
		api:     opts.API,
		observe: opts.Observe,
		now:     time.Now,
	}
}

// Redeliver walks the delivery history newest first and requests a fresh
// attempt for every failed workflow_job/queued delivery within the window.
// It returns the number of redeliveries requested. Hitting the provider's
// rate limit ends the run early with the partial count and a nil error; the
// work done so far is real and must not be reported as failure.
func (s *RedeliveryService) Redeliver(ctx context.Context, since time.Duration) (int, error) {
	if since <= 0 {
		return 0, apperrors.Validation("redelivery window must be positive")
	}

	started := s.now()
	cutoff := started.Add(-since)
	seen := make(map[int64]struct{})

	count := 0
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return count, apperrors.Wrap(err, apperrors.ErrCodeRedelivery, "redelivery cancelled")
		}

		page, err := s.api.ListDeliveries(ctx, cursor)
		if err != nil {
			if apperrors.IsRateLimited(err) {
				s.finishRateLimited(started, count, err)
				return count, nil
			}
			return count, apperrors.Wrap(err, apperrors.ErrCodeRedelivery, "list deliveries")
		}

		for _, d := range page.Deliveries {
			// History is ordered newest first, so the first delivery older
			// than the cutoff ends the walk.
			if d.DeliveredAt.Before(cutoff) {
				s.finish(started, count)
				return count, nil
			}
			if !d.Failed() || d.Event != webhook.SupportedEvent || d.Action != redeliverAction {
				continue
			}
			if _, dup := seen[d.ID]; dup {
				continue
			}
			seen[d.ID] = struct{}{}

			if err := ctx.Err(); err != nil {
				return count, apperrors.Wrap(err, apperrors.ErrCodeRedelivery, "redelivery cancelled")
			}
			if err := s.api.RedeliverAttempt(ctx, d.ID); err != nil {
				if apperrors.IsRateLimited(err) {
					s.finishRateLimited(started, count, err)
					return count, nil
				}
				return count, apperrors.Wrapf(err, apperrors.ErrCodeRedelivery, "redeliver %d", d.ID)
			}
			count++
			s.observe.logger().Info("requested redelivery", "delivery_id", d.ID)
		}

		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	s.finish(started, count)
	return count, nil
}

func (s *RedeliveryService) finish(started time.Time, count int) {
	s.observe.logger().Info("redelivery run complete", "redelivered", count)
	metrics.EmitRedeliveryRun(s.observe.Metrics, metrics.RedeliveryMetric{
		Redelivered: count,
		Duration:    s.now().Sub(started),
	})
}

func (s *RedeliveryService) finishRateLimited(started time.Time, count int, err error) {
	s.observe.logger().Warn("redelivery run stopped by rate limit",
		"redelivered", count, "error", err)
	metrics.EmitRedeliveryRun(s.observe.Metrics, metrics.RedeliveryMetric{
		Redelivered: count,
		Duration:    s.now().Sub(started),
		RateLimited: true,
	})
}
