package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tawfik37/atim-go/internal/models"
)

func newTestSeriesCache(t *testing.T) (*SeriesCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := &RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(client.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewSeriesCache(client, time.Hour, logger), mr
}

func sampleSeries(keyword string) *models.InterestSeries {
	return &models.InterestSeries{
		Keyword:   keyword,
		Geo:       "US",
		Timeframe: "today 3-m",
		Points: []models.InterestPoint{
			{Timestamp: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), Value: 35},
			{Timestamp: time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC), Value: 48},
			{Timestamp: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), Value: 61},
		},
	}
}

func TestSeriesCacheRoundTrip(t *testing.T) {
	c, _ := newTestSeriesCache(t)
	ctx := context.Background()

	c.PutSeries(ctx, sampleSeries("winter boots"))

	got, ok := c.GetSeries(ctx, "winter boots", "US", "today 3-m")
	require.True(t, ok)
	assert.Equal(t, "winter boots", got.Keyword)
	require.Len(t, got.Points, 3)
	assert.Equal(t, 61.0, got.Points[2].Value)
}

func TestSeriesCacheMiss(t *testing.T) {
	c, _ := newTestSeriesCache(t)

	got, ok := c.GetSeries(context.Background(), "nonexistent", "US", "today 3-m")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestSeriesCacheKeyIncludesGeoAndTimeframe(t *testing.T) {
	c, _ := newTestSeriesCache(t)
	ctx := context.Background()

	c.PutSeries(ctx, sampleSeries("winter boots"))

	_, ok := c.GetSeries(ctx, "winter boots", "DE", "today 3-m")
	assert.False(t, ok, "entry scoped to geo US must not serve DE")

	_, ok = c.GetSeries(ctx, "winter boots", "US", "today 12-m")
	assert.False(t, ok, "entry scoped to one timeframe must not serve another")
}

func TestSeriesCacheEntriesExpire(t *testing.T) {
	c, mr := newTestSeriesCache(t)
	ctx := context.Background()

	c.PutSeries(ctx, sampleSeries("sandals"))
	mr.FastForward(2 * time.Hour)

	_, ok := c.GetSeries(ctx, "sandals", "US", "today 3-m")
	assert.False(t, ok)
}

func TestSeriesCacheCorruptEntryIsAMiss(t *testing.T) {
	c, mr := newTestSeriesCache(t)

	require.NoError(t, mr.Set("trends:series:US:today 3-m:sandals", "not json"))

	got, ok := c.GetSeries(context.Background(), "sandals", "US", "today 3-m")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestSeriesCacheUnreachableRedisDegradesToMiss(t *testing.T) {
	c, mr := newTestSeriesCache(t)
	mr.Close()

	got, ok := c.GetSeries(context.Background(), "sandals", "US", "today 3-m")
	assert.False(t, ok)
	assert.Nil(t, got)

	// Writes are best effort and must not panic either.
	c.PutSeries(context.Background(), sampleSeries("sandals"))
}
