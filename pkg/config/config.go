// Package config loads server configuration from the environment, with
// optional YAML screen profiles for per-deployment UI defaults.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds server configuration.
type Config struct {
	Port         string
	LogLevel     string
	RedisAddr    string
	RedisDB      int
	DatabasePath string
	Secret       string
	CacheTTL     time.Duration
	Debug        bool
	RateRPS      int
	RateBurst    int
	ProfilesDir  string
	OTLPEndpoint string
}

// Load loads configuration from environment variables.
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "usim.db"
	}

	secret := os.Getenv("USIM_SECRET")
	if secret == "" {
		// Development fallback; production deployments must set their own.
		secret = "usim-dev-secret"
	}

	ttl := 1800 * time.Second
	if raw := os.Getenv("UI_CACHE_TTL"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	return &Config{
		Port:         port,
		LogLevel:     logLevel,
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisDB:      envInt("REDIS_DB", 0),
		DatabasePath: dbPath,
		Secret:       secret,
		CacheTTL:     ttl,
		Debug:        os.Getenv("UI_DEBUG") == "true",
		RateRPS:      envInt("RATE_LIMIT_RPS", 20),
		RateBurst:    envInt("RATE_LIMIT_BURST", 40),
		ProfilesDir:  os.Getenv("PROFILES_DIR"),
		OTLPEndpoint: os.Getenv("OTLP_ENDPOINT"),
	}
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
