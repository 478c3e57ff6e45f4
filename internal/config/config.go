package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	DatabaseURL    string
	ServerPort     string
	BaseURL        string
	FrontendURL    string
	EnableHSTS     bool
	RedisURL       string
	RateLimit      string
	RequestTimeout time.Duration
	SeedOnStartup  bool
	LogFormat      string
	DebugMode      bool
	OTELEnabled    bool
	OTELEndpoint   string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		EnableHSTS:     getEnvBool("ENABLE_HSTS", false),
		RedisURL:       getEnv("REDIS_URL", ""),
		RateLimit:      getEnv("RATE_LIMIT", "100-S"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		SeedOnStartup:  getEnvBool("SEED_ON_STARTUP", true),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		DebugMode:      getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:    getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return nil, fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// AllowedOrigins returns FrontendURL split on commas, trimmed and de-duplicated
func (c *Config) AllowedOrigins() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range strings.Split(c.FrontendURL, ",") {
		s := strings.TrimSpace(p)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("10s") or a bare number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
