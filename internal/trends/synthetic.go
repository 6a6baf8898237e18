package trends

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/tawfik37/atim-go/internal/models"
)

// syntheticLength matches the weekly cadence of a three month window
const syntheticLength = 13

// SyntheticSeries generates a deterministic stand-in series for a keyword
// when the upstream source is unavailable. The generator is seeded from the
// keyword so repeated calls, and repeated test runs, produce the same series.
// Values stay within [0,100] like real interest data.
func SyntheticSeries(keyword, geo, timeframe string) *models.InterestSeries {
	seed := fnv.New64a()
	_, _ = seed.Write([]byte(keyword))
	rng := rand.New(rand.NewSource(int64(seed.Sum64())))

	base := 30 + rng.Float64()*40  // resting level in [30,70]
	drift := -1.5 + rng.Float64()*3 // per-sample trend in [-1.5,1.5]
	amplitude := 2 + rng.Float64()*6

	start := time.Now().AddDate(0, -3, 0).Truncate(24 * time.Hour)
	points := make([]models.InterestPoint, syntheticLength)
	for i := range points {
		wave := amplitude * math.Sin(float64(i)/2.5)
		noise := rng.Float64()*4 - 2
		value := base + drift*float64(i) + wave + noise
		if value < 0 {
			value = 0
		}
		if value > 100 {
			value = 100
		}
		points[i] = models.InterestPoint{
			Timestamp: start.AddDate(0, 0, i*7),
			Value:     value,
		}
	}

	return &models.InterestSeries{
		Keyword:   keyword,
		Geo:       geo,
		Timeframe: timeframe,
		Points:    points,
	}
}
