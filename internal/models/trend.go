package models

import (
	"time"
)

// TrendStatus classifies the direction of a search-interest trend
type TrendStatus string

const (
	TrendStatusRising    TrendStatus = "Rising"
	TrendStatusPeaking   TrendStatus = "Peaking"
	TrendStatusDeclining TrendStatus = "Declining"
	TrendStatusStable    TrendStatus = "Stable"
)

// InterestPoint is a single sample of search interest, value in [0,100]
type InterestPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// InterestSeries is a chronological, fixed-cadence sequence of interest
// samples for one keyword
type InterestSeries struct {
	Keyword   string          `json:"keyword"`
	Geo       string          `json:"geo"`
	Timeframe string          `json:"timeframe"`
	Points    []InterestPoint `json:"points"`
}

// Len returns the number of samples in the series
func (s *InterestSeries) Len() int {
	return len(s.Points)
}

// Values returns the sample values in chronological order
func (s *InterestSeries) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	return values
}

// TrendMetrics holds the derived measurements for one interest series.
// Computed fresh per call and never mutated afterwards.
type TrendMetrics struct {
	Velocity    float64 `json:"velocity"`
	Strength    float64 `json:"strength"`
	RecentValue float64 `json:"recent_value"`
	PeakValue   float64 `json:"peak_value"`
}

// TrendClassification is the per-keyword output of the classifier
type TrendClassification struct {
	Keyword     string      `json:"keyword"`
	Status      TrendStatus `json:"status"`
	Confidence  float64     `json:"confidence"`
	Velocity    float64     `json:"velocity"`
	Strength    float64     `json:"strength"`
	RecentValue float64     `json:"recent_value"`
	PeakValue   float64     `json:"peak_value"`
}

// RankedTrendList is a descending-confidence ordered list of classifications,
// already filtered by the caller's minimum confidence and capped in size
type RankedTrendList []TrendClassification

// AnalysisResult wraps one pipeline run for API responses
type AnalysisResult struct {
	RunID     string          `json:"run_id"`
	Geo       string          `json:"geo"`
	Timeframe string          `json:"timeframe"`
	Requested int             `json:"requested"`
	Analyzed  int             `json:"analyzed"`
	Skipped   int             `json:"skipped"`
	Trends    RankedTrendList `json:"trends"`
	Timestamp time.Time       `json:"timestamp"`
}
