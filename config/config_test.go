package config

import (
	"testing"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/runner-webhook-router/internal/domain/model"
)

func loadConfig(t *testing.T, vars map[string]string) *AppConfig {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	return &cfg
}

func TestDefaults(t *testing.T) {
	cfg := loadConfig(t, nil)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.URI)
	assert.Equal(t, "webhooks:", cfg.Redis.StreamPrefix)
	assert.Equal(t, []string{"self-hosted", "linux"}, cfg.Routing.IgnoreLabels)
	assert.Empty(t, cfg.Routing.FlavorLabels)
	assert.False(t, cfg.Observability.Metrics.IsEnabled())
	assert.False(t, cfg.IsDev)
}

func TestFlavorLabelsFromEnv(t *testing.T) {
	cfg := loadConfig(t, map[string]string{
		"FLAVOR_LABELS": `[{"flavor":"large","labels":["large","x64"]},{"flavor":"arm","labels":["arm64"]}]`,
	})

	require.Len(t, cfg.Routing.FlavorLabels, 2)
	assert.Equal(t, model.FlavorLabels{Flavor: "large", Labels: []string{"large", "x64"}},
		cfg.Routing.FlavorLabels[0])
	assert.Equal(t, model.FlavorLabels{Flavor: "arm", Labels: []string{"arm64"}},
		cfg.Routing.FlavorLabels[1])
}

func TestFlavorLabelsInvalidJSON(t *testing.T) {
	t.Setenv("FLAVOR_LABELS", `{"flavor":`)

	var cfg AppConfig
	require.Error(t, env.Parse(&cfg))
}

func TestValidate(t *testing.T) {
	base := map[string]string{
		"WEBHOOK_SECRET": "s3cret",
		"DEFAULT_FLAVOR": "small",
		"FLAVOR_LABELS":  `[{"flavor":"large","labels":["large"]}]`,
	}

	t.Run("complete", func(t *testing.T) {
		cfg := loadConfig(t, base)
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := loadConfig(t, map[string]string{
			"DEFAULT_FLAVOR": "small",
			"FLAVOR_LABELS":  `[{"flavor":"large","labels":["large"]}]`,
		})
		require.Error(t, cfg.Validate())
	})

	t.Run("missing secret tolerated in dev", func(t *testing.T) {
		cfg := loadConfig(t, map[string]string{
			"DEV":            "true",
			"DEFAULT_FLAVOR": "small",
			"FLAVOR_LABELS":  `[{"flavor":"large","labels":["large"]}]`,
		})
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing default flavor", func(t *testing.T) {
		cfg := loadConfig(t, map[string]string{
			"WEBHOOK_SECRET": "s3cret",
			"FLAVOR_LABELS":  `[{"flavor":"large","labels":["large"]}]`,
		})
		require.Error(t, cfg.Validate())
	})

	t.Run("missing flavor labels", func(t *testing.T) {
		cfg := loadConfig(t, map[string]string{
			"WEBHOOK_SECRET": "s3cret",
			"DEFAULT_FLAVOR": "small",
		})
		require.Error(t, cfg.Validate())
	})
}

func TestSanitizeGuardrails(t *testing.T) {
	cfg := loadConfig(t, map[string]string{
		"IGNORE_LABELS":                        " self-hosted , ,linux ",
		"OBSERVABILITY_METRICS_ENABLED":        "true",
		"OBSERVABILITY_METRICS_STATSD_ADDRESS": "   ",
		"REDIS_URI":                            "  ",
		"REDIS_STREAM_PREFIX":                  " ",
		"HTTP_READ_TIMEOUT":                    "0s",
	})

	assert.Equal(t, []string{"self-hosted", "linux"}, cfg.Routing.IgnoreLabels)
	assert.False(t, cfg.Observability.Metrics.IsEnabled())
	assert.Equal(t, "localhost:6379", cfg.Redis.URI)
	assert.Equal(t, "webhooks:", cfg.Redis.StreamPrefix)
	assert.Positive(t, cfg.HTTP.ReadTimeout)
}

func TestDevModeFromAppEnv(t *testing.T) {
	cfg := loadConfig(t, map[string]string{"APP_ENV": "development"})
	assert.True(t, cfg.IsDev)
}
