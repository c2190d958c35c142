package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Optional Redis for market-quote caching; empty disables it.
	RedisURL string

	MarketAPIURL   string
	MarketCacheTTL time.Duration

	// Sliding-window limits applied per identifier:endpoint.
	RateLimitRequests int
	RateLimitWindow   time.Duration
	// Coarse per-IP limiter in front of everything.
	GlobalRateLimitRPS   int
	GlobalRateLimitBurst int

	AlertPollInterval     time.Duration
	WeeklySummaryInterval time.Duration

	EmailWebhookURL    string
	EmailWebhookSecret string

	// Demo mode blocks writes for everyone, mirroring the hosted demo.
	DemoMode bool
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		RedisURL:              getEnv("REDIS_URL", ""),
		MarketAPIURL:          getEnv("MARKET_API_URL", "https://api.coingecko.com/api/v3"),
		MarketCacheTTL:        getDuration("MARKET_CACHE_TTL", time.Minute),
		RateLimitRequests:     getInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:       getDuration("RATE_LIMIT_WINDOW", time.Minute),
		GlobalRateLimitRPS:    getInt("GLOBAL_RATE_LIMIT_RPS", 20),
		GlobalRateLimitBurst:  getInt("GLOBAL_RATE_LIMIT_BURST", 40),
		AlertPollInterval:     getDuration("ALERT_POLL_INTERVAL", time.Minute),
		WeeklySummaryInterval: getDuration("WEEKLY_SUMMARY_INTERVAL", 7*24*time.Hour),
		EmailWebhookURL:       getEnv("EMAIL_WEBHOOK_URL", ""),
		EmailWebhookSecret:    getEnv("EMAIL_WEBHOOK_SECRET", ""),
		DemoMode:              getEnv("DEMO_MODE", "false") == "true",
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Fatalf("%s must be an integer, got %q", key, value)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Fatalf("%s must be a duration like 30s or 5m, got %q", key, value)
	}
	return fallback
}
