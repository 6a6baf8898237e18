package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tawfik37/atim-go/internal/config"
	"github.com/tawfik37/atim-go/internal/models"
)

// ErrInvalidParameter indicates a contract violation by the caller. This is
// the only error class that aborts a whole batch.
var ErrInvalidParameter = errors.New("invalid parameter")

// SeriesFetcher supplies one interest series per keyword. Implementations
// are expected to substitute synthetic data on upstream failure so that a
// single keyword never blocks the batch.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, keyword, geo, timeframe string) (*models.InterestSeries, error)
}

// BatchSeriesFetcher is implemented by fetchers that pace grouped fetches to
// stay under upstream rate limits. When the fetcher supports it, the pipeline
// prefetches every series through it instead of issuing back-to-back
// single-keyword fetches.
type BatchSeriesFetcher interface {
	SeriesFetcher
	FetchBatch(ctx context.Context, keywords []string, geo, timeframe string) map[string]*models.InterestSeries
}

// Analyzer runs the trend classification pipeline: fetch series, compute
// metrics, classify, rank. Keywords are fully independent; there is no
// cross-keyword state and every entity is recomputed per call.
type Analyzer struct {
	fetcher    SeriesFetcher
	cfg        config.AnalyzerConfig
	classifier *Classifier
	logger     *logrus.Logger
}

// New creates an analyzer with the given fetcher and threshold policy
func New(fetcher SeriesFetcher, cfg config.AnalyzerConfig, logger *logrus.Logger) *Analyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Analyzer{
		fetcher:    fetcher,
		cfg:        cfg,
		classifier: NewClassifier(cfg),
		logger:     logger,
	}
}

// GetHighConfidenceTrends classifies every keyword and returns the ranked
// subset clearing minConfidence, capped at maxResults. Keywords whose series
// cannot be obtained or are too short are skipped, not fatal. An empty trend
// list is a normal outcome when nothing clears the threshold.
func (a *Analyzer) GetHighConfidenceTrends(ctx context.Context, keywords []string, geo, timeframe string, minConfidence float64, maxResults int) (*models.AnalysisResult, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("%w: keyword list is empty", ErrInvalidParameter)
	}
	if geo == "" {
		return nil, fmt.Errorf("%w: geo is empty", ErrInvalidParameter)
	}
	if timeframe == "" {
		return nil, fmt.Errorf("%w: timeframe is empty", ErrInvalidParameter)
	}
	if minConfidence < 0 {
		return nil, fmt.Errorf("%w: min confidence %.2f is negative", ErrInvalidParameter, minConfidence)
	}
	if maxResults < 0 {
		return nil, fmt.Errorf("%w: max results %d is negative", ErrInvalidParameter, maxResults)
	}
	for _, keyword := range keywords {
		if keyword == "" {
			return nil, fmt.Errorf("%w: keyword list contains an empty keyword", ErrInvalidParameter)
		}
	}

	runID := uuid.New().String()
	a.logger.WithFields(logrus.Fields{
		"run_id":   runID,
		"keywords": len(keywords),
		"geo":      geo,
	}).Info("Starting trend analysis run")

	classifications := a.classifyAll(ctx, keywords, geo, timeframe)

	result := &models.AnalysisResult{
		RunID:     runID,
		Geo:       geo,
		Timeframe: timeframe,
		Requested: len(keywords),
		Analyzed:  len(classifications),
		Skipped:   len(keywords) - len(classifications),
		Trends:    Rank(classifications, minConfidence, maxResults),
		Timestamp: time.Now(),
	}

	a.logger.WithFields(logrus.Fields{
		"run_id":   runID,
		"analyzed": result.Analyzed,
		"skipped":  result.Skipped,
		"ranked":   len(result.Trends),
	}).Info("Trend analysis run completed")

	return result, nil
}

// classifyAll prefetches every series, then classifies the keywords either
// sequentially or in a bounded worker pool. Context cancellation stops
// issuing further fetches; results gathered so far are kept.
func (a *Analyzer) classifyAll(ctx context.Context, keywords []string, geo, timeframe string) map[string]models.TrendClassification {
	series := a.fetchAll(ctx, keywords, geo, timeframe)

	workers := a.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(keywords) {
		workers = len(keywords)
	}

	classifications := make(map[string]models.TrendClassification, len(series))
	if workers == 1 {
		for _, keyword := range keywords {
			s, ok := series[keyword]
			if !ok {
				continue
			}
			if tc, ok := a.classifySeries(keyword, s); ok {
				classifications[keyword] = tc
			}
		}
		return classifications
	}

	jobs := make(chan string)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for keyword := range jobs {
				s, ok := series[keyword]
				if !ok {
					continue
				}
				if tc, ok := a.classifySeries(keyword, s); ok {
					mu.Lock()
					classifications[keyword] = tc
					mu.Unlock()
				}
			}
		}()
	}

	for _, keyword := range keywords {
		jobs <- keyword
	}
	close(jobs)
	wg.Wait()

	return classifications
}

// fetchAll obtains one series per keyword. A fetcher implementing
// BatchSeriesFetcher paces the whole group; otherwise keywords are fetched
// one by one until the context is cancelled.
func (a *Analyzer) fetchAll(ctx context.Context, keywords []string, geo, timeframe string) map[string]*models.InterestSeries {
	if batch, ok := a.fetcher.(BatchSeriesFetcher); ok {
		return batch.FetchBatch(ctx, keywords, geo, timeframe)
	}

	series := make(map[string]*models.InterestSeries, len(keywords))
	for _, keyword := range keywords {
		if ctx.Err() != nil {
			break
		}
		s, err := a.fetcher.FetchSeries(ctx, keyword, geo, timeframe)
		if err != nil {
			a.logger.WithError(err).WithField("keyword", keyword).Warn("Skipping keyword: no series available")
			continue
		}
		series[keyword] = s
	}
	return series
}

// classifySeries runs the single-keyword pipeline over a fetched series. The
// second return value is false when the keyword had to be skipped.
func (a *Analyzer) classifySeries(keyword string, series *models.InterestSeries) (models.TrendClassification, bool) {
	metrics, err := ComputeMetrics(series, a.cfg.RecentWindow)
	if err != nil {
		a.logger.WithError(err).WithField("keyword", keyword).Warn("Skipping keyword: series too short")
		return models.TrendClassification{}, false
	}
	return a.classifier.Classify(keyword, metrics), true
}
