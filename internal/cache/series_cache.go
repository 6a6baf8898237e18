package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tawfik37/atim-go/internal/models"
)

// SeriesCache stores fetched interest series in Redis keyed by keyword, geo
// and timeframe. Cache failures are logged and treated as misses so the
// pipeline degrades to direct fetches instead of failing.
type SeriesCache struct {
	redis  *RedisClient
	ttl    time.Duration
	logger *logrus.Logger
}

// NewSeriesCache creates a series cache with the given TTL
func NewSeriesCache(redisClient *RedisClient, ttl time.Duration, logger *logrus.Logger) *SeriesCache {
	if logger == nil {
		logger = logrus.New()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SeriesCache{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// GetSeries returns the cached series for the key, if present
func (c *SeriesCache) GetSeries(ctx context.Context, keyword, geo, timeframe string) (*models.InterestSeries, bool) {
	payload, err := c.redis.Client.Get(ctx, seriesKey(keyword, geo, timeframe)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Debug("Series cache read failed")
		}
		return nil, false
	}

	var series models.InterestSeries
	if err := json.Unmarshal([]byte(payload), &series); err != nil {
		c.logger.WithError(err).Warn("Discarding corrupt cached series")
		return nil, false
	}
	return &series, true
}

// PutSeries stores a fetched series with the configured TTL, best effort
func (c *SeriesCache) PutSeries(ctx context.Context, series *models.InterestSeries) {
	payload, err := json.Marshal(series)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to marshal series for cache")
		return
	}

	key := seriesKey(series.Keyword, series.Geo, series.Timeframe)
	if err := c.redis.Client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Debug("Series cache write failed")
	}
}

func seriesKey(keyword, geo, timeframe string) string {
	return fmt.Sprintf("trends:series:%s:%s:%s", geo, timeframe, keyword)
}
