package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds client core configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// API endpoints
	APIBaseURL   string
	ValidatePath string

	// Validation pipeline
	DebounceDelay time.Duration
	CacheTTL      time.Duration

	// HTTP
	RequestTimeout time.Duration

	// Circuit breaker
	BreakerEnabled          bool
	BreakerMaxRequests      int
	BreakerInterval         time.Duration
	BreakerTimeout          time.Duration
	BreakerFailureThreshold int

	// Redis (optional shared validation result store)
	RedisURL string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL:   getEnv("ROSTERKIT_API_BASE_URL", "http://localhost:8000"),
		ValidatePath: getEnv("ROSTERKIT_VALIDATE_PATH", "/api/schedule/validate"),

		DebounceDelay: getDurationEnv("ROSTERKIT_DEBOUNCE_DELAY", 300*time.Millisecond),
		CacheTTL:      getDurationEnv("ROSTERKIT_CACHE_TTL", 60*time.Second),

		RequestTimeout: getDurationEnv("ROSTERKIT_REQUEST_TIMEOUT", 15*time.Second),

		BreakerEnabled:          getBoolEnv("ROSTERKIT_BREAKER_ENABLED", true),
		BreakerMaxRequests:      getIntEnv("ROSTERKIT_BREAKER_MAX_REQUESTS", 3),
		BreakerInterval:         getDurationEnv("ROSTERKIT_BREAKER_INTERVAL", 10*time.Second),
		BreakerTimeout:          getDurationEnv("ROSTERKIT_BREAKER_TIMEOUT", 30*time.Second),
		BreakerFailureThreshold: getIntEnv("ROSTERKIT_BREAKER_FAILURE_THRESHOLD", 5),

		RedisURL: getEnv("ROSTERKIT_REDIS_URL", ""),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
