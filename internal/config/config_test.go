package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/moneymate")
	for _, key := range []string{"PORT", "TIMEZONE", "CACHE_TTL_SECONDS", "STORE_TIMEOUT_SECONDS",
		"PREDICTION_HISTORY_MONTHS", "RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_BURST", "CACHE_SWEEP_SCHEDULE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 120*time.Second, cfg.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "@every 1m", cfg.CacheSweepSchedule)
	assert.Equal(t, 12, cfg.PredictionHistoryMonths)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.NoError(t, cfg.Validate(false))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TIMEZONE", "Africa/Nairobi")
	t.Setenv("CACHE_TTL_SECONDS", "30")
	t.Setenv("PREDICTION_HISTORY_MONTHS", "24")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Africa/Nairobi", cfg.Location.String())
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 24, cfg.PredictionHistoryMonths)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"TIMEZONE", "Mars/Olympus"},
		{"CACHE_TTL_SECONDS", "soon"},
		{"STORE_TIMEOUT_SECONDS", "0"},
		{"RATE_LIMIT_BURST", "ten"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		DatabaseURL:             "postgres://localhost/moneymate",
		PredictionHistoryMonths: 12,
		RateLimitPerMinute:      60,
		RateLimitBurst:          10,
	}

	assert.NoError(t, base.Validate(false))
	assert.Error(t, base.Validate(true), "auth settings are required for the API")

	withAuth := base
	withAuth.Auth0Domain = "tenant.auth0.com"
	withAuth.Auth0Audience = "https://api.moneymate.app"
	assert.NoError(t, withAuth.Validate(true))

	noDB := base
	noDB.DatabaseURL = ""
	assert.Error(t, noDB.Validate(false))

	shortHistory := base
	shortHistory.PredictionHistoryMonths = 2
	assert.Error(t, shortHistory.Validate(false))
}
