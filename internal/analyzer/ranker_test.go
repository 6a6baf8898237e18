package analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tawfik37/atim-go/internal/models"
)

func classificationsByConfidence(confidences map[string]float64) map[string]models.TrendClassification {
	out := make(map[string]models.TrendClassification, len(confidences))
	for keyword, confidence := range confidences {
		out[keyword] = models.TrendClassification{
			Keyword:    keyword,
			Status:     models.TrendStatusRising,
			Confidence: confidence,
		}
	}
	return out
}

func TestRankFiltersAndOrders(t *testing.T) {
	input := classificationsByConfidence(map[string]float64{
		"running shoes":  91.5,
		"winter boots":   42.0,
		"canvas sneaker": 19.9,
		"hiking boots":   67.3,
	})

	ranked := Rank(input, 20.0, 10)

	require.Len(t, ranked, 3)
	assert.Equal(t, "running shoes", ranked[0].Keyword)
	assert.Equal(t, "hiking boots", ranked[1].Keyword)
	assert.Equal(t, "winter boots", ranked[2].Keyword)
}

func TestRankTiesBrokenByKeyword(t *testing.T) {
	input := classificationsByConfidence(map[string]float64{
		"zebra print heels": 50.0,
		"ankle boots":       50.0,
		"mules":             50.0,
	})

	ranked := Rank(input, 0, 10)

	require.Len(t, ranked, 3)
	assert.Equal(t, "ankle boots", ranked[0].Keyword)
	assert.Equal(t, "mules", ranked[1].Keyword)
	assert.Equal(t, "zebra print heels", ranked[2].Keyword)
}

func TestRankTruncatesToMaxResults(t *testing.T) {
	input := make(map[string]models.TrendClassification)
	for i := 0; i < 25; i++ {
		keyword := fmt.Sprintf("keyword-%02d", i)
		input[keyword] = models.TrendClassification{Keyword: keyword, Confidence: float64(i)}
	}

	ranked := Rank(input, 0, 10)

	require.Len(t, ranked, 10)
	assert.Equal(t, "keyword-24", ranked[0].Keyword)
	assert.Equal(t, "keyword-15", ranked[9].Keyword)
}

func TestRankEmptyResultIsNotError(t *testing.T) {
	input := classificationsByConfidence(map[string]float64{
		"espadrilles": 30.0,
		"loafers":     55.0,
	})

	ranked := Rank(input, 95.0, 10)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)

	ranked = Rank(nil, 0, 10)
	assert.Empty(t, ranked)
}

func TestRankDeterministicAcrossRuns(t *testing.T) {
	input := classificationsByConfidence(map[string]float64{
		"a": 80, "b": 80, "c": 60, "d": 60, "e": 40,
	})

	first := Rank(input, 0, 0)
	for i := 0; i < 10; i++ {
		again := Rank(input, 0, 0)
		assert.Equal(t, first, again)
	}
}
