package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PORT":                  "",
		"REDIS_URL":             "",
		"CART_TTL":              "",
		"RATE_LIMIT_RPM":        "",
		"OBS_ENABLE_PROMETHEUS": "",
		"OBS_ENABLE_TRACING":    "",
	})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.False(t, cfg.RedisEnabled())
	require.Equal(t, 24*time.Hour, cfg.CartTTL)
	require.Equal(t, 120, cfg.RateLimitPerMinute)
	require.True(t, cfg.MetricsEnabled)
	require.False(t, cfg.TracingEnabled)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PORT":                 ":9090",
		"REDIS_URL":            "redis://localhost:6379/0",
		"CORS_ALLOWED_ORIGINS": "https://shop.example, ,https://admin.example",
		"CART_TTL":             "30m",
		"RATE_LIMIT_RPM":       "10",
		"OBS_ENABLE_TRACING":   "yes",
		"BODY_LIMIT_BYTES":     "2048",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.True(t, cfg.RedisEnabled())
	require.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 30*time.Minute, cfg.CartTTL)
	require.Equal(t, 10, cfg.RateLimitPerMinute)
	require.True(t, cfg.TracingEnabled)
	require.EqualValues(t, 2048, cfg.BodyLimitBytes)
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{"CART_TTL": "soon"})
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, cfg.CartTTL)
}

func TestLoadRejectsNegativeRateLimit(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{"RATE_LIMIT_RPM": "-1"})
	require.Error(t, err)
}
