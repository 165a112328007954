package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, "/api/schedule/validate", cfg.ValidatePath)
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceDelay)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.BreakerEnabled)
	assert.Equal(t, 5, cfg.BreakerFailureThreshold)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("ROSTERKIT_API_BASE_URL", "https://roster.example.com")
	t.Setenv("ROSTERKIT_DEBOUNCE_DELAY", "150ms")
	t.Setenv("ROSTERKIT_CACHE_TTL", "2m")
	t.Setenv("ROSTERKIT_BREAKER_ENABLED", "false")
	t.Setenv("ROSTERKIT_REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "https://roster.example.com", cfg.APIBaseURL)
	assert.Equal(t, 150*time.Millisecond, cfg.DebounceDelay)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.BreakerEnabled)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ROSTERKIT_CACHE_TTL", "not-a-duration")
	t.Setenv("ROSTERKIT_BREAKER_MAX_REQUESTS", "many")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.BreakerMaxRequests)
}
