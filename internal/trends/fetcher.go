package trends

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tawfik37/atim-go/internal/config"
	"github.com/tawfik37/atim-go/internal/models"
)

// SeriesSource is the upstream fetch operation the Fetcher wraps
type SeriesSource interface {
	InterestOverTime(ctx context.Context, keyword, geo, timeframe string) (*models.InterestSeries, error)
}

// SeriesCache is an optional read-through cache for fetched series
type SeriesCache interface {
	GetSeries(ctx context.Context, keyword, geo, timeframe string) (*models.InterestSeries, bool)
	PutSeries(ctx context.Context, series *models.InterestSeries)
}

// Fetcher obtains interest series with rate-limit aware retries and a
// deterministic synthetic fallback. A keyword whose fetch ultimately fails
// gets synthetic data instead of blocking the rest of the batch.
type Fetcher struct {
	source    SeriesSource
	cache     SeriesCache
	cfg       config.TrendsConfig
	logger    *logrus.Logger
	baseDelay time.Duration
	pause     time.Duration

	// sleep is swapped out in tests to avoid real waits
	sleep func(ctx context.Context, d time.Duration) error
}

// NewFetcher creates a fetcher around the given source. cache may be nil.
func NewFetcher(source SeriesSource, cache SeriesCache, cfg config.TrendsConfig, logger *logrus.Logger) *Fetcher {
	if logger == nil {
		logger = logrus.New()
	}

	baseDelay, err := time.ParseDuration(cfg.RetryBaseDelay)
	if err != nil || baseDelay <= 0 {
		baseDelay = 5 * time.Second
	}
	pause, err := time.ParseDuration(cfg.FetchPause)
	if err != nil || pause < 0 {
		pause = 3 * time.Second
	}

	return &Fetcher{
		source:    source,
		cache:     cache,
		cfg:       cfg,
		logger:    logger,
		baseDelay: baseDelay,
		pause:     pause,
		sleep:     sleepContext,
	}
}

// FetchSeries returns the series for one keyword, from cache when possible,
// retrying rate-limited fetches with exponential backoff and jitter, and
// finally substituting a deterministic synthetic series. The only error it
// returns is context cancellation.
func (f *Fetcher) FetchSeries(ctx context.Context, keyword, geo, timeframe string) (*models.InterestSeries, error) {
	if f.cache != nil {
		if series, ok := f.cache.GetSeries(ctx, keyword, geo, timeframe); ok {
			return series, nil
		}
	}

	retries := f.cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}

	for attempt := 0; attempt < retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		series, err := f.source.InterestOverTime(ctx, keyword, geo, timeframe)
		if err == nil {
			if f.cache != nil {
				f.cache.PutSeries(ctx, series)
			}
			return series, nil
		}

		if errors.Is(err, ErrRateLimited) && attempt < retries-1 {
			wait := f.baseDelay*(1<<attempt) + time.Duration(rand.Int63n(int64(2*time.Second)))
			f.logger.WithFields(logrus.Fields{
				"keyword": keyword,
				"attempt": attempt + 1,
				"wait":    wait.String(),
			}).Warn("Rate limit reached, backing off before retry")
			if err := f.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}

		f.logger.WithError(err).WithField("keyword", keyword).Warn("Fetch failed, using synthetic series")
		break
	}

	return SyntheticSeries(keyword, geo, timeframe), nil
}

// FetchBatch fetches keywords in groups no larger than the configured batch
// size, pausing between fetches to stay under upstream rate limits. Context
// cancellation stops issuing further fetches; the partial result is returned.
func (f *Fetcher) FetchBatch(ctx context.Context, keywords []string, geo, timeframe string) map[string]*models.InterestSeries {
	batchSize := f.cfg.BatchSize
	if batchSize < 1 {
		batchSize = 5
	}

	results := make(map[string]*models.InterestSeries, len(keywords))
	for i, keyword := range keywords {
		if ctx.Err() != nil {
			break
		}

		series, err := f.FetchSeries(ctx, keyword, geo, timeframe)
		if err != nil {
			break
		}
		results[keyword] = series

		if i == len(keywords)-1 {
			break
		}
		wait := f.pause
		if (i+1)%batchSize == 0 {
			wait = 2 * f.pause
		}
		if err := f.sleep(ctx, wait); err != nil {
			break
		}
	}

	return results
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
