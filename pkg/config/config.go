// Package config loads triage settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string `validate:"oneof=development test staging production"`
	LogLevel string `validate:"oneof=debug info warn error"`
	UserID   string `validate:"required,uuid"`

	// Ranking
	DefaultStrategy string `validate:"omitempty,oneof=smart_balance fastest_wins high_impact deadline_driven"`
	SuggestionCount int    `validate:"min=1,max=100"`
	MaxBatchSize    int    `validate:"min=1"`

	// Cache. An empty RedisURL selects the in-process cache.
	RedisURL     string `validate:"omitempty,url"`
	CacheTTL     time.Duration
	CacheEnabled bool

	// Engine executor
	EngineTimeout           time.Duration `validate:"min=0"`
	BreakerEnabled          bool
	BreakerFailureThreshold int           `validate:"min=1"`
	BreakerOpenTimeout      time.Duration `validate:"min=0"`
	BreakerHalfOpenRequests int           `validate:"min=1"`

	// Servers
	APIAddr      string `validate:"required,hostname_port"`
	MCPAddr      string `validate:"required,hostname_port"`
	MCPAuthToken string
}

var validate = validator.New()

// Load reads an optional .env file, then the environment, and validates
// the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		UserID:   getEnv("TRIAGE_USER_ID", "00000000-0000-0000-0000-000000000001"),

		DefaultStrategy: getEnv("TRIAGE_DEFAULT_STRATEGY", "smart_balance"),
		SuggestionCount: getIntEnv("TRIAGE_SUGGESTION_COUNT", 3),
		MaxBatchSize:    getIntEnv("TRIAGE_MAX_BATCH_SIZE", 1000),

		RedisURL:     getEnv("REDIS_URL", ""),
		CacheTTL:     getDurationEnv("TRIAGE_CACHE_TTL", 5*time.Minute),
		CacheEnabled: getBoolEnv("TRIAGE_CACHE_ENABLED", true),

		EngineTimeout:           getDurationEnv("TRIAGE_ENGINE_TIMEOUT", 10*time.Second),
		BreakerEnabled:          getBoolEnv("TRIAGE_BREAKER_ENABLED", true),
		BreakerFailureThreshold: getIntEnv("TRIAGE_BREAKER_FAILURES", 5),
		BreakerOpenTimeout:      getDurationEnv("TRIAGE_BREAKER_TIMEOUT", 30*time.Second),
		BreakerHalfOpenRequests: getIntEnv("TRIAGE_BREAKER_HALF_OPEN_REQUESTS", 3),

		APIAddr:      getEnv("API_ADDR", "0.0.0.0:8080"),
		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
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
