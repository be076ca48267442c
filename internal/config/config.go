package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL  string
	StoreTimeout time.Duration

	// Auth0
	Auth0Domain   string
	Auth0Audience string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Analytics
	Location                *time.Location
	CacheTTL                time.Duration
	CacheSweepSchedule      string
	PredictionHistoryMonths int

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		Auth0Domain:        getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:      getEnv("AUTH0_AUDIENCE", ""),
		Port:               getEnv("PORT", "8080"),
		CORSOrigins:        strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:                getEnv("ENV", "development"),
		CacheSweepSchedule: getEnv("CACHE_SWEEP_SCHEDULE", "@every 1m"),
	}

	var err error
	if cfg.Location, err = time.LoadLocation(getEnv("TIMEZONE", "UTC")); err != nil {
		return nil, fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	ints := []struct {
		key  string
		def  int
		dest *int
	}{
		{"PREDICTION_HISTORY_MONTHS", 12, &cfg.PredictionHistoryMonths},
		{"RATE_LIMIT_PER_MINUTE", 60, &cfg.RateLimitPerMinute},
		{"RATE_LIMIT_BURST", 10, &cfg.RateLimitBurst},
	}
	for _, v := range ints {
		if *v.dest, err = getEnvInt(v.key, v.def); err != nil {
			return nil, err
		}
	}

	if cfg.CacheTTL, err = getEnvSeconds("CACHE_TTL_SECONDS", 120); err != nil {
		return nil, err
	}
	if cfg.StoreTimeout, err = getEnvSeconds("STORE_TIMEOUT_SECONDS", 5); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings the API server cannot run without. The CLI
// only needs the database and skips the Auth0 checks.
func (c *Config) Validate(requireAuth bool) error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if requireAuth {
		if c.Auth0Domain == "" {
			return fmt.Errorf("AUTH0_DOMAIN is required")
		}
		if c.Auth0Audience == "" {
			return fmt.Errorf("AUTH0_AUDIENCE is required")
		}
	}
	if c.PredictionHistoryMonths < 3 {
		return fmt.Errorf("PREDICTION_HISTORY_MONTHS must be at least 3")
	}
	if c.RateLimitPerMinute <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvSeconds(key string, defaultSeconds int) (time.Duration, error) {
	n, err := getEnvInt(key, defaultSeconds)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return time.Duration(n) * time.Second, nil
}
