package config

import (
	"errors"
	"strings"

	"github.com/target/runner-webhook-router/internal/domain/model"
)

// RoutingConfig contains webhook verification and label routing configuration.
type RoutingConfig struct {
	// WebhookSecret is the shared HMAC secret used to verify webhook
	// signatures. Required outside development mode.
	WebhookSecret string `env:"WEBHOOK_SECRET" envDefault:""`

	// DefaultFlavor receives jobs whose labels are all ignored or absent.
	DefaultFlavor string `env:"DEFAULT_FLAVOR" envDefault:""`

	// IgnoreLabels are excluded from flavor matching. These are the labels
	// every self-hosted job carries regardless of the target machine.
	IgnoreLabels []string `env:"IGNORE_LABELS" envDefault:"self-hosted,linux"`

	// FlavorLabels is the ordered flavor to labels mapping as a JSON array,
	// e.g. [{"flavor":"large","labels":["large","x64"]},{"flavor":"arm","labels":["arm64"]}].
	FlavorLabels model.FlavorLabelsMapping `env:"FLAVOR_LABELS"`
}

// Sanitize applies guardrails to routing configuration values.
func (r *RoutingConfig) Sanitize() {
	r.WebhookSecret = strings.TrimSpace(r.WebhookSecret)
	r.DefaultFlavor = strings.TrimSpace(r.DefaultFlavor)

	labels := r.IgnoreLabels[:0]
	for _, label := range r.IgnoreLabels {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			labels = append(labels, trimmed)
		}
	}
	r.IgnoreLabels = labels
}

// Validate checks values with no safe fallback. A missing webhook secret is
// tolerated in development only.
func (r *RoutingConfig) Validate(isDev bool) error {
	if r.WebhookSecret == "" && !isDev {
		return errors.New("WEBHOOK_SECRET is required outside development mode")
	}
	if r.DefaultFlavor == "" {
		return errors.New("DEFAULT_FLAVOR is required")
	}
	if len(r.FlavorLabels) == 0 {
		return errors.New("FLAVOR_LABELS is required")
	}
	return nil
}
