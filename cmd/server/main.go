package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tawfik37/atim-go/internal/analyzer"
	"github.com/tawfik37/atim-go/internal/api"
	"github.com/tawfik37/atim-go/internal/cache"
	"github.com/tawfik37/atim-go/internal/config"
	"github.com/tawfik37/atim-go/internal/inventory"
	"github.com/tawfik37/atim-go/internal/notify"
	"github.com/tawfik37/atim-go/internal/recommend"
	"github.com/tawfik37/atim-go/internal/trends"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	// Redis is optional; without it series fetches skip the cache
	var redisClient *cache.RedisClient
	var seriesCache trends.SeriesCache
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisConnection(cfg.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, continuing without series cache")
		} else {
			defer redisClient.Close()
			ttl, err := time.ParseDuration(cfg.Redis.TTL)
			if err != nil {
				ttl = time.Hour
			}
			seriesCache = cache.NewSeriesCache(redisClient, ttl, logger)
		}
	}

	trendsClient := trends.NewClient(&cfg.Trends, logger)
	fetcher := trends.NewFetcher(trendsClient, seriesCache, cfg.Trends, logger)
	trendAnalyzer := analyzer.New(fetcher, cfg.Analyzer, logger)
	recommender := recommend.NewService(recommend.NewGeminiClient(&cfg.Gemini, logger), logger)
	notifier := notify.NewNotificationService(cfg.Telegram, logger)

	// Preload the configured CSV when present; otherwise wait for an upload
	var store *inventory.Store
	if _, err := os.Stat(cfg.Inventory.CSVFile); err == nil {
		store, err = inventory.NewStore(cfg.Inventory, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to load inventory CSV, waiting for upload")
		}
	}

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	handler := api.NewHandler(cfg, store, trendAnalyzer, recommender, notifier, redisClient, logger)
	api.SetupRoutes(router, handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Infof("Server starting on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
