package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tawfik37/atim-go/internal/models"
)

// ContentGenerator produces natural-language text for a prompt. The system
// treats it as an opaque oracle: no guarantee is made about its output.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Service turns trend classifications and inventory state into restocking
// guidance. When the generative model is unavailable it degrades to fixed
// rule-based text instead of failing.
type Service struct {
	generator ContentGenerator
	logger    *logrus.Logger
}

// NewService creates a recommendation service. generator may be nil, in
// which case only rule-based recommendations are produced.
func NewService(generator ContentGenerator, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		generator: generator,
		logger:    logger,
	}
}

// GenerateRecommendations returns natural-language guidance for the given
// trends and inventory. Never fails: LLM errors fall back to rule-based text.
func (s *Service) GenerateRecommendations(ctx context.Context, trends models.RankedTrendList, items []models.InventoryItem, summary models.InventorySummary, season string, holidays []string) string {
	if s.generator != nil {
		prompt := BuildPrompt(trends, items, summary, season, holidays)
		text, err := s.generator.GenerateContent(ctx, prompt)
		if err == nil && strings.TrimSpace(text) != "" {
			return text
		}
		if err != nil {
			s.logger.WithError(err).Warn("LLM generation failed, using rule-based recommendations")
		}
	}
	return RuleBasedRecommendations(trends, items)
}

// RuleBasedRecommendations is the deterministic fallback used when the
// generative model is unavailable.
func RuleBasedRecommendations(trends models.RankedTrendList, items []models.InventoryItem) string {
	var sb strings.Builder
	sb.WriteString("## Inventory Recommendations\n\n")

	byStatus := map[models.TrendStatus][]models.TrendClassification{}
	for _, t := range trends {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	if rising := byStatus[models.TrendStatusRising]; len(rising) > 0 {
		sb.WriteString("### Restock ahead of demand\n")
		for _, t := range rising {
			fmt.Fprintf(&sb, "- %s is trending up (velocity %+.1f, confidence %.0f). Increase the next reorder quantity.\n",
				titleCaser.String(t.Keyword), t.Velocity, t.Confidence)
		}
		sb.WriteString("\n")
	}

	if peaking := byStatus[models.TrendStatusPeaking]; len(peaking) > 0 {
		sb.WriteString("### Maintain stock\n")
		for _, t := range peaking {
			fmt.Fprintf(&sb, "- %s is at peak interest (strength %.0f). Hold current stock levels and avoid over-ordering past the peak.\n",
				titleCaser.String(t.Keyword), t.Strength)
		}
		sb.WriteString("\n")
	}

	if declining := byStatus[models.TrendStatusDeclining]; len(declining) > 0 {
		sb.WriteString("### Mark down or phase out\n")
		for _, t := range declining {
			fmt.Fprintf(&sb, "- %s is losing interest (velocity %+.1f). Schedule markdowns and reduce reorder quantities.\n",
				titleCaser.String(t.Keyword), t.Velocity)
		}
		sb.WriteString("\n")
	}

	lowStock := 0
	sbLow := strings.Builder{}
	for _, item := range items {
		if item.IsLowStock() {
			lowStock++
			fmt.Fprintf(&sbLow, "- %s: %d on hand, reorder point %d. Reorder %d units (lead time %d days).\n",
				item.ProductName, item.CurrentStock, item.ReorderPoint, item.ReorderQuantity, item.LeadTimeDays)
		}
	}
	if lowStock > 0 {
		sb.WriteString("### Low stock alerts\n")
		sb.WriteString(sbLow.String())
		sb.WriteString("\n")
	}

	if len(trends) == 0 && lowStock == 0 {
		sb.WriteString("No strong trends found and all items are above their reorder points. " +
			"Consider widening the confidence threshold or re-running the analysis later.\n")
	}

	return sb.String()
}
