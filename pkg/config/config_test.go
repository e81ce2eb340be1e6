package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "usim.db", cfg.DatabasePath)
	assert.Equal(t, 1800*time.Second, cfg.CacheTTL)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 20, cfg.RateRPS)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("UI_CACHE_TTL", "60")
	t.Setenv("UI_DEBUG", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("RATE_LIMIT_RPS", "5")

	cfg := Load()
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 5, cfg.RateRPS)
}

func TestLoad_IgnoresGarbageTTL(t *testing.T) {
	t.Setenv("UI_CACHE_TTL", "soon")
	cfg := Load()
	assert.Equal(t, 1800*time.Second, cfg.CacheTTL)
}
