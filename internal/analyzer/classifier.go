package analyzer

import (
	"math"

	"github.com/tawfik37/atim-go/internal/config"
	"github.com/tawfik37/atim-go/internal/models"
)

// Classifier maps trend metrics onto one of the four trend statuses and
// assigns a confidence score. Classification is a pure total function over
// well-formed metrics: every input maps to exactly one status, and each call
// is independent of all previous ones.
type Classifier struct {
	cfg config.AnalyzerConfig
}

// NewClassifier creates a classifier with the given threshold policy
func NewClassifier(cfg config.AnalyzerConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify evaluates the decision policy in priority order, first match wins:
//
//  1. Peaking: at or near the historical maximum, flattened, and strong
//     enough to matter
//  2. Rising: recent level meaningfully above baseline
//  3. Declining: recent level meaningfully below baseline
//  4. Stable: everything else
func (c *Classifier) Classify(keyword string, m models.TrendMetrics) models.TrendClassification {
	status := models.TrendStatusStable

	absVelocity := math.Abs(m.Velocity)
	nearPeak := m.PeakValue > 0 && m.RecentValue >= c.cfg.PeakTolerance*m.PeakValue

	switch {
	case nearPeak && absVelocity < c.cfg.FlatThreshold && m.Strength >= c.cfg.PeakFloor:
		status = models.TrendStatusPeaking
	case m.Velocity > c.cfg.RisingThreshold:
		status = models.TrendStatusRising
	case m.Velocity < c.cfg.DecliningThreshold:
		status = models.TrendStatusDeclining
	}

	return models.TrendClassification{
		Keyword:     keyword,
		Status:      status,
		Confidence:  c.confidence(absVelocity, m.Strength),
		Velocity:    m.Velocity,
		Strength:    m.Strength,
		RecentValue: m.RecentValue,
		PeakValue:   m.PeakValue,
	}
}

// confidence combines capped velocity magnitude and strength into a [0,100]
// score. Monotonically non-decreasing in both inputs, saturating at 100.
func (c *Classifier) confidence(absVelocity, strength float64) float64 {
	capped := absVelocity
	if capped > c.cfg.VelocityCap {
		capped = c.cfg.VelocityCap
	}
	velocityScore := capped / c.cfg.VelocityCap * 100

	score := velocityScore*c.cfg.VelocityWeight + strength*c.cfg.StrengthWeight
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
