package analyzer

import (
	"errors"
	"fmt"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"github.com/tawfik37/atim-go/internal/models"
)

// ErrInsufficientSeries is returned when a series is too short for any
// metric to be computable. Callers skip the keyword rather than aborting.
var ErrInsufficientSeries = errors.New("interest series must contain at least 2 samples")

// baselineEpsilon guards the velocity denominator when the baseline window
// averages to zero.
const baselineEpsilon = 1e-9

// ComputeMetrics derives velocity, strength, recent value and peak value from
// an interest series. The series is split into a recent window (last
// recentWindow samples, or roughly the most recent third when recentWindow is
// zero) and a baseline window covering the remaining earlier samples.
//
// Pure function of the input: no side effects, no external calls.
func ComputeMetrics(series *models.InterestSeries, recentWindow int) (models.TrendMetrics, error) {
	if series == nil || series.Len() < 2 {
		got := 0
		if series != nil {
			got = series.Len()
		}
		return models.TrendMetrics{}, fmt.Errorf("%w: got %d", ErrInsufficientSeries, got)
	}

	values := series.Values()
	n := len(values)

	window := recentWindow
	if window <= 0 {
		window = (n + 2) / 3
	}
	if window > n {
		window = n
	}

	recent := values[n-window:]
	baseline := values[:n-window]

	recentMean := windowMean(recent)

	// Series shorter than the recent window leaves no baseline; the first
	// sample stands in for it.
	baselineMean := values[0]
	if len(baseline) > 0 {
		baselineMean = windowMean(baseline)
	}

	denominator := baselineMean
	if denominator < baselineEpsilon {
		denominator = baselineEpsilon
	}
	velocity := (recentMean - baselineMean) / denominator * 100

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}

	return models.TrendMetrics{
		Velocity:    velocity,
		Strength:    recentMean,
		RecentValue: values[n-1],
		PeakValue:   peak,
	}, nil
}

// windowMean computes the mean of a window as the final value of a simple
// moving average whose period spans the whole window.
func windowMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sma := trend.NewSmaWithPeriod[float64](len(values))
	out := helper.ChanToSlice(sma.Compute(helper.SliceToChan(values)))
	if len(out) == 0 {
		return 0
	}
	return out[len(out)-1]
}
