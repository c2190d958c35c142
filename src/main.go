package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"fintrack-server/src/alerts"
	"fintrack-server/src/api"
	"fintrack-server/src/config"
	"fintrack-server/src/db"
	"fintrack-server/src/logger"
	"fintrack-server/src/mail"
	"fintrack-server/src/market"
)

func main() {
	cfg := config.Load()

	zl := logger.New()
	log.Logger = zl

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	db.InitCache()

	// Redis is optional; without it market quotes just skip the shared cache.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = db.ConnectRedis(cfg.RedisURL)
		if err != nil {
			zl.Warn().Err(err).Msg("redis unavailable, market quote caching disabled")
			redisClient = nil
		}
	}

	marketClient := market.New(cfg.MarketAPIURL, redisClient, cfg.MarketCacheTTL)
	notifier := mail.NewNotifier(cfg.EmailWebhookURL, cfg.EmailWebhookSecret)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poller := alerts.NewPoller(pool, marketClient, notifier, cfg.AlertPollInterval)
	go poller.Run(ctx)

	digest := alerts.NewWeeklyDigest(pool, notifier, cfg.WeeklySummaryInterval)
	go digest.Run(ctx)

	router := api.NewRouter(cfg, zl, pool, marketClient)

	zl.Info().Str("port", cfg.Port).Msg("API server running")
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		zl.Fatal().Err(err).Msg("server exited")
	}
}
