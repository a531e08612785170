package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ConsolePort string
	LogLevel    string

	BackendURL     string
	BackendTimeout time.Duration

	HighlightDuration time.Duration
	ExampleCacheTTL   time.Duration

	BreakerEnabled          bool
	BreakerMinRequests      int
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls int

	RateLimitPerSecond float64
	RateLimitBurst     int

	MCPServerName string
}

func Load() Config {
	return Config{
		ConsolePort: mustEnv("CONSOLE_PORT", "8080"),
		LogLevel:    mustEnv("LOG_LEVEL", "info"),

		BackendURL:     mustEnv("BACKEND_URL", "http://localhost:8000"),
		BackendTimeout: mustEnvDuration("BACKEND_TIMEOUT", 60*time.Second),

		HighlightDuration: mustEnvDuration("HIGHLIGHT_DURATION", 1200*time.Millisecond),
		ExampleCacheTTL:   mustEnvDuration("EXAMPLE_CACHE_TTL", 5*time.Minute),

		BreakerEnabled:          mustEnvBool("BREAKER_ENABLED", true),
		BreakerMinRequests:      mustEnvInt("BREAKER_MIN_REQUESTS", 10),
		BreakerFailureRatio:     mustEnvFloat("BREAKER_FAILURE_RATIO", 0.5),
		BreakerOpenTimeout:      mustEnvDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second),
		BreakerHalfOpenMaxCalls: mustEnvInt("BREAKER_HALF_OPEN_MAX_CALLS", 2),

		RateLimitPerSecond: mustEnvFloat("RATE_LIMIT_PER_SECOND", 20),
		RateLimitBurst:     mustEnvInt("RATE_LIMIT_BURST", 40),

		MCPServerName: mustEnv("MCP_SERVER_NAME", "docshield-console"),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
