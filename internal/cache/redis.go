package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tawfik37/atim-go/internal/config"
)

const connectTimeout = 5 * time.Second

// RedisClient holds the connection backing the series cache
type RedisClient struct {
	Client *redis.Client
}

// NewRedisConnection dials Redis and verifies it responds before handing the
// client to the cache layer. Callers treat an error here as "run without a
// cache", not as fatal.
func NewRedisConnection(cfg config.RedisConfig) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	}).Info("Trend series cache connected to Redis")

	return &RedisClient{Client: rdb}, nil
}

// Close releases the underlying connection. Safe on a nil client.
func (r *RedisClient) Close() {
	if r == nil || r.Client == nil {
		return
	}
	if err := r.Client.Close(); err != nil {
		logrus.WithError(err).Warn("Closing Redis connection failed")
	}
}

// HealthCheck pings Redis, used by the health endpoint
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}
