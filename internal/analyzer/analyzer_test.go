package analyzer

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tawfik37/atim-go/internal/models"
	"github.com/tawfik37/atim-go/internal/trends"
)

// The production fetcher must take the paced batch path.
var _ BatchSeriesFetcher = (*trends.Fetcher)(nil)

// stubFetcher serves canned series per keyword and fails the keywords listed
// in failing.
type stubFetcher struct {
	series  map[string][]float64
	failing map[string]error
}

func (s *stubFetcher) FetchSeries(_ context.Context, keyword, _, _ string) (*models.InterestSeries, error) {
	if err, ok := s.failing[keyword]; ok {
		return nil, err
	}
	values, ok := s.series[keyword]
	if !ok {
		return nil, errors.New("no such keyword")
	}
	return seriesFromValues(keyword, values), nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestGetHighConfidenceTrendsScenarios(t *testing.T) {
	fetcher := &stubFetcher{series: map[string][]float64{
		"flat keyword":      {50, 50, 50, 50, 50, 50, 50, 50, 50, 50},
		"rising keyword":    linearValues(10, 90, 12),
		"peaking keyword":   {85, 88, 90, 93, 95, 92, 92, 92, 92},
		"declining keyword": linearValues(80, 15, 12),
	}}
	a := New(fetcher, testAnalyzerConfig(), quietLogger())

	result, err := a.GetHighConfidenceTrends(context.Background(),
		[]string{"flat keyword", "rising keyword", "peaking keyword", "declining keyword"},
		"US", "today 3-m", 20.0, 10)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Requested)
	assert.Equal(t, 4, result.Analyzed)
	assert.Equal(t, 0, result.Skipped)
	assert.NotEmpty(t, result.RunID)

	byKeyword := make(map[string]models.TrendClassification)
	for _, tc := range result.Trends {
		byKeyword[tc.Keyword] = tc
	}

	require.Contains(t, byKeyword, "flat keyword")
	assert.Equal(t, models.TrendStatusStable, byKeyword["flat keyword"].Status)
	assert.InDelta(t, 20.0, byKeyword["flat keyword"].Confidence, 0.01)

	require.Contains(t, byKeyword, "rising keyword")
	assert.Equal(t, models.TrendStatusRising, byKeyword["rising keyword"].Status)
	assert.Greater(t, byKeyword["rising keyword"].Confidence, 85.0)

	require.Contains(t, byKeyword, "peaking keyword")
	assert.Equal(t, models.TrendStatusPeaking, byKeyword["peaking keyword"].Status)

	require.Contains(t, byKeyword, "declining keyword")
	assert.Equal(t, models.TrendStatusDeclining, byKeyword["declining keyword"].Status)

	// Ranked by confidence, so the steep riser leads the flat series.
	assert.Equal(t, "rising keyword", result.Trends[0].Keyword)
}

func TestGetHighConfidenceTrendsHighBarYieldsEmptyList(t *testing.T) {
	fetcher := &stubFetcher{series: map[string][]float64{
		"flat keyword": {50, 50, 50, 50, 50, 50, 50, 50, 50, 50},
	}}
	a := New(fetcher, testAnalyzerConfig(), quietLogger())

	result, err := a.GetHighConfidenceTrends(context.Background(), []string{"flat keyword"}, "US", "today 3-m", 95.0, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Analyzed)
	assert.Empty(t, result.Trends)
}

func TestGetHighConfidenceTrendsInvalidParameters(t *testing.T) {
	fetcher := &stubFetcher{series: map[string][]float64{}}
	a := New(fetcher, testAnalyzerConfig(), quietLogger())

	tests := []struct {
		name          string
		keywords      []string
		geo           string
		timeframe     string
		minConfidence float64
		maxResults    int
	}{
		{"empty keyword list", nil, "US", "today 3-m", 20, 10},
		{"empty geo", []string{"boots"}, "", "today 3-m", 20, 10},
		{"empty timeframe", []string{"boots"}, "US", "", 20, 10},
		{"negative min confidence", []string{"boots"}, "US", "today 3-m", -1, 10},
		{"negative max results", []string{"boots"}, "US", "today 3-m", 20, -5},
		{"blank keyword in list", []string{"boots", ""}, "US", "today 3-m", 20, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := a.GetHighConfidenceTrends(context.Background(), tt.keywords, tt.geo, tt.timeframe, tt.minConfidence, tt.maxResults)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParameter)
			assert.Nil(t, result)
		})
	}
}

func TestGetHighConfidenceTrendsSkipsFailedKeywords(t *testing.T) {
	fetcher := &stubFetcher{
		series: map[string][]float64{
			"healthy": linearValues(10, 90, 12),
			"short":   {40},
		},
		failing: map[string]error{
			"broken": errors.New("upstream exploded"),
		},
	}
	a := New(fetcher, testAnalyzerConfig(), quietLogger())

	result, err := a.GetHighConfidenceTrends(context.Background(), []string{"healthy", "short", "broken"}, "US", "today 3-m", 0, 10)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Requested)
	assert.Equal(t, 1, result.Analyzed)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Trends, 1)
	assert.Equal(t, "healthy", result.Trends[0].Keyword)
}

func TestGetHighConfidenceTrendsIdempotent(t *testing.T) {
	fetcher := &stubFetcher{series: map[string][]float64{
		"alpha": linearValues(20, 80, 10),
		"beta":  linearValues(70, 25, 10),
		"gamma": {60, 60, 60, 60, 60, 60, 60, 60},
	}}
	a := New(fetcher, testAnalyzerConfig(), quietLogger())
	keywords := []string{"alpha", "beta", "gamma"}

	first, err := a.GetHighConfidenceTrends(context.Background(), keywords, "US", "today 3-m", 0, 10)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := a.GetHighConfidenceTrends(context.Background(), keywords, "US", "today 3-m", 0, 10)
		require.NoError(t, err)
		assert.Equal(t, first.Trends, again.Trends)
		assert.NotEqual(t, first.RunID, again.RunID)
	}
}

func TestWorkerPoolMatchesSequential(t *testing.T) {
	series := map[string][]float64{
		"alpha":   linearValues(20, 80, 10),
		"beta":    linearValues(70, 25, 10),
		"gamma":   {60, 60, 60, 60, 60, 60, 60, 60},
		"delta":   {85, 88, 90, 93, 95, 92, 92, 92, 92},
		"epsilon": linearValues(5, 95, 14),
	}
	keywords := []string{"alpha", "beta", "gamma", "delta", "epsilon"}

	seqCfg := testAnalyzerConfig()
	seqCfg.Workers = 1
	parCfg := testAnalyzerConfig()
	parCfg.Workers = 4

	sequential := New(&stubFetcher{series: series}, seqCfg, quietLogger())
	parallel := New(&stubFetcher{series: series}, parCfg, quietLogger())

	want, err := sequential.GetHighConfidenceTrends(context.Background(), keywords, "US", "today 3-m", 0, 10)
	require.NoError(t, err)
	got, err := parallel.GetHighConfidenceTrends(context.Background(), keywords, "US", "today 3-m", 0, 10)
	require.NoError(t, err)

	assert.Equal(t, want.Trends, got.Trends)
	assert.Equal(t, want.Analyzed, got.Analyzed)
}

// batchStubFetcher counts which fetch path the pipeline takes.
type batchStubFetcher struct {
	stubFetcher
	batchCalls    int
	batchKeywords []string
	singleCalls   int
}

func (b *batchStubFetcher) FetchSeries(ctx context.Context, keyword, geo, timeframe string) (*models.InterestSeries, error) {
	b.singleCalls++
	return b.stubFetcher.FetchSeries(ctx, keyword, geo, timeframe)
}

func (b *batchStubFetcher) FetchBatch(ctx context.Context, keywords []string, geo, timeframe string) map[string]*models.InterestSeries {
	b.batchCalls++
	b.batchKeywords = append(b.batchKeywords, keywords...)

	results := make(map[string]*models.InterestSeries, len(keywords))
	for _, keyword := range keywords {
		series, err := b.stubFetcher.FetchSeries(ctx, keyword, geo, timeframe)
		if err != nil {
			continue
		}
		results[keyword] = series
	}
	return results
}

func TestBatchCapableFetcherTakesBatchPath(t *testing.T) {
	fetcher := &batchStubFetcher{stubFetcher: stubFetcher{series: map[string][]float64{
		"alpha": linearValues(20, 80, 10),
		"beta":  linearValues(70, 25, 10),
		"gamma": {60, 60, 60, 60, 60, 60, 60, 60},
	}}}
	a := New(fetcher, testAnalyzerConfig(), quietLogger())
	keywords := []string{"alpha", "beta", "gamma"}

	result, err := a.GetHighConfidenceTrends(context.Background(), keywords, "US", "today 3-m", 0, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.batchCalls, "keywords must be fetched as one paced batch")
	assert.Equal(t, keywords, fetcher.batchKeywords)
	assert.Equal(t, 0, fetcher.singleCalls, "no back-to-back single-keyword fetches")
	assert.Equal(t, 3, result.Analyzed)
}

func TestBatchPathMatchesSingleFetchPath(t *testing.T) {
	series := map[string][]float64{
		"alpha": linearValues(20, 80, 10),
		"beta":  linearValues(70, 25, 10),
		"gamma": {85, 88, 90, 93, 95, 92, 92, 92, 92},
	}
	keywords := []string{"alpha", "beta", "gamma"}

	plain := New(&stubFetcher{series: series}, testAnalyzerConfig(), quietLogger())
	batched := New(&batchStubFetcher{stubFetcher: stubFetcher{series: series}}, testAnalyzerConfig(), quietLogger())

	want, err := plain.GetHighConfidenceTrends(context.Background(), keywords, "US", "today 3-m", 0, 10)
	require.NoError(t, err)
	got, err := batched.GetHighConfidenceTrends(context.Background(), keywords, "US", "today 3-m", 0, 10)
	require.NoError(t, err)

	assert.Equal(t, want.Trends, got.Trends)
	assert.Equal(t, want.Analyzed, got.Analyzed)
	assert.Equal(t, want.Skipped, got.Skipped)
}

func TestCancelledContextKeepsPartialResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &stubFetcher{series: map[string][]float64{
		"alpha": linearValues(20, 80, 10),
	}}
	a := New(fetcher, testAnalyzerConfig(), quietLogger())

	result, err := a.GetHighConfidenceTrends(ctx, []string{"alpha"}, "US", "today 3-m", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Analyzed)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Trends)
}
