// Package main provides the atim CLI: a one-shot terminal analysis that
// loads the inventory CSV, classifies trends for its keywords and prints the
// full report with recommendations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tawfik37/atim-go/internal/analyzer"
	"github.com/tawfik37/atim-go/internal/cache"
	"github.com/tawfik37/atim-go/internal/config"
	"github.com/tawfik37/atim-go/internal/inventory"
	"github.com/tawfik37/atim-go/internal/notify"
	"github.com/tawfik37/atim-go/internal/recommend"
	"github.com/tawfik37/atim-go/internal/report"
	"github.com/tawfik37/atim-go/internal/trends"
)

const version = "1.0.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		csvFile       string
		minConfidence float64
		maxResults    int
		maxKeywords   int
		timeout       time.Duration
	)

	cmd := &cobra.Command{
		Use:     "atim",
		Short:   "AI trend and inventory manager",
		Long:    "Analyzes search-interest trends for the products in an inventory CSV and prints restocking guidance.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if csvFile != "" {
				cfg.Inventory.CSVFile = csvFile
			}
			if cmd.Flags().Changed("min-confidence") {
				cfg.Analyzer.MinConfidence = minConfidence
			}
			if cmd.Flags().Changed("max-results") {
				cfg.Analyzer.MaxResults = maxResults
			}
			if cmd.Flags().Changed("max-keywords") {
				cfg.Trends.MaxKeywords = maxKeywords
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&csvFile, "csv", "c", "", "inventory CSV file (default from config)")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 20.0, "minimum confidence threshold")
	cmd.Flags().IntVar(&maxResults, "max-results", 10, "maximum number of ranked trends")
	cmd.Flags().IntVar(&maxKeywords, "max-keywords", 15, "maximum keywords to fetch from the trend source")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall analysis timeout")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	cobra.OnFinalize(stop)
	cmd.SetContext(ctx)

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	store, err := inventory.NewStore(cfg.Inventory, logger)
	if err != nil {
		return err
	}

	var seriesCache trends.SeriesCache
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisConnection(cfg.Redis)
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

	keywords := store.Keywords()
	if max := cfg.Trends.MaxKeywords; max > 0 && len(keywords) > max {
		logger.Infof("Limiting to first %d of %d keywords to avoid rate limits", max, len(keywords))
		keywords = keywords[:max]
	}

	result, err := trendAnalyzer.GetHighConfidenceTrends(ctx, keywords,
		cfg.Trends.Geo, cfg.Trends.Timeframe, cfg.Analyzer.MinConfidence, cfg.Analyzer.MaxResults)
	if err != nil {
		return err
	}

	holidays := []string{"Labor Day", "Back to School", "Fall Fashion Week"}
	recommendations := recommender.GenerateRecommendations(ctx, result.Trends,
		store.Items(), store.Summary(), cfg.Inventory.CurrentSeason, holidays)

	fmt.Print(report.Render(result, store.Summary(), store.Analytics(), store.LowStockItems(),
		recommendations, cfg.Inventory.CurrentSeason))

	if notifier.Enabled() {
		notifier.NotifyTrends(ctx, result.Trends)
		notifier.NotifyLowStock(ctx, store.LowStockItems())
	}

	return nil
}
