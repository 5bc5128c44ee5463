package metrics

import (
	"time"

	apperrors "github.com/target/runner-webhook-router/internal/errors"
	"github.com/target/runner-webhook-router/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultDropped = "dropped"
)

// WebhookMetric captures details about one processed webhook for metric emission.
type WebhookMetric struct {
	Flavor string
	Result string
	Err    error
}

// EmitWebhookProcessed emits standardised webhook processing metrics.
func EmitWebhookProcessed(sink statsd.Sink, in WebhookMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{"result": in.Result}
	if in.Flavor != "" {
		tags["flavor"] = in.Flavor
	}
	if in.Err != nil && in.Result == ResultError {
		if code := apperrors.GetCode(in.Err); code != "" {
			tags["error_class"] = string(code)
		}
	}

	sink.Count("webhook.processed", 1, tags)
}

// RedeliveryMetric captures the outcome of one redelivery run.
type RedeliveryMetric struct {
	Redelivered int
	Duration    time.Duration
	RateLimited bool
}

// EmitRedeliveryRun emits metrics for a completed redelivery run.
func EmitRedeliveryRun(sink statsd.Sink, in RedeliveryMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{"rate_limited": "false"}
	if in.RateLimited {
		tags["rate_limited"] = "true"
	}

	sink.Count("redelivery.delivered", int64(in.Redelivered), tags)
	if in.Duration > 0 {
		sink.Timing("redelivery.duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map, filtering out empty maps.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
