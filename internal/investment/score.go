package investment

import (
	"math"

	"github.com/trogers1052/wine-investment-service/internal/models"
)

const (
	baseScore = 5.0
	minScore  = 1.0
	maxScore  = 10.0
)

var appreciationTiers = []thresholdTier{
	{test: func(a float64) bool { return a > 0.5 }, points: 2},
	{test: func(a float64) bool { return a > 0.3 }, points: 1.5},
	{test: func(a float64) bool { return a > 0.15 }, points: 1},
	{test: func(a float64) bool { return a < 0 }, points: -1},
}

var regionTiers = []keywordTier{
	{keywords: []string{"bordeaux", "burgundy"}, points: 1.5},
	{keywords: []string{"champagne", "tuscany"}, points: 1},
	{keywords: InvestmentRegions, points: 0.5},
}

// "cult wine" counts toward investment grade but earns no score bonus here.
var classificationTiers = []keywordTier{
	{keywords: []string{"first growth", "grand cru"}, points: 1.5},
	{keywords: []string{"premier cru", "super tuscan"}, points: 1},
}

var ageTiers = []thresholdTier{
	{test: func(age float64) bool { return age >= 10 }, points: 1},
	{test: func(age float64) bool { return age >= 5 }, points: 0.5},
}

// CalculateInvestmentScore rates a wine from 1 to 10 using its price
// history, region, classification and age. The result has one decimal.
func CalculateInvestmentScore(w *models.Wine, history []models.PricePoint) float64 {
	score := baseScore

	if appreciation, ok := Appreciation(history); ok {
		score += firstThresholdMatch(appreciation, appreciationTiers)
	}

	score += firstKeywordMatch(w.Region, regionTiers)
	score += firstKeywordMatch(w.Classification, classificationTiers)

	age := CurrentYear - w.VintageYear()
	score += firstThresholdMatch(float64(age), ageTiers)

	return math.Min(maxScore, math.Max(minScore, roundTo(score, 1)))
}

// Appreciation returns the fractional change from the first to the last
// price. It reports false for histories shorter than two points or with a
// non-positive starting price.
func Appreciation(history []models.PricePoint) (float64, bool) {
	if len(history) < 2 {
		return 0, false
	}
	first := float64(history[0].Price)
	if first <= 0 {
		return 0, false
	}
	last := float64(history[len(history)-1].Price)
	return (last - first) / first, true
}
