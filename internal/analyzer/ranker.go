package analyzer

import (
	"sort"

	"github.com/tawfik37/atim-go/internal/models"
)

// Rank filters classifications by minimum confidence, orders them by
// descending confidence (ties broken by keyword for determinism) and
// truncates to maxResults. An empty list is a normal outcome, not an error.
func Rank(classifications map[string]models.TrendClassification, minConfidence float64, maxResults int) models.RankedTrendList {
	ranked := make(models.RankedTrendList, 0, len(classifications))
	for _, tc := range classifications {
		if tc.Confidence >= minConfidence {
			ranked = append(ranked, tc)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		return ranked[i].Keyword < ranked[j].Keyword
	})

	if maxResults > 0 && len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	return ranked
}
