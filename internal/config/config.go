package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr                string
	APIBaseURL          string
	RedisURL            string
	SessionSecret       string
	FetchTimeout        time.Duration
	AutoRefreshInterval time.Duration
	DegradedBackend     bool
	RateLimitRequests   int
	RateLimitWindow     time.Duration
}

func Load() Config {
	return Config{
		Addr:                getenv("BRACULA_ADDR", ":8090"),
		APIBaseURL:          getenv("BRACULA_API_URL", "http://localhost:8000/api"),
		RedisURL:            getenv("REDIS_URL", "redis://localhost:6379/0"),
		SessionSecret:       getenv("BRACULA_SESSION_SECRET", "bracula-dev-secret"),
		FetchTimeout:        time.Duration(getenvInt("BRACULA_FETCH_TIMEOUT_SECONDS", 5)) * time.Second,
		AutoRefreshInterval: time.Duration(getenvInt("BRACULA_REFRESH_INTERVAL_SECONDS", 60)) * time.Second,
		DegradedBackend:     getenvBool("BRACULA_DEGRADED_BACKEND", false),
		RateLimitRequests:   getenvInt("BRACULA_RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:     time.Duration(getenvInt("BRACULA_RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
