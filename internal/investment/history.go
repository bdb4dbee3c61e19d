package investment

import (
	"math"

	"github.com/trogers1052/wine-investment-service/internal/models"
)

// History window. Every generated history covers these years inclusive.
const (
	BaseYear    = 2018
	CurrentYear = 2024
)

// HistoryLength is the number of points in a generated price history
const HistoryLength = CurrentYear - BaseYear + 1

const (
	minEstimatedPrice   = 50
	estimatedPriceRange = 200

	investmentGrowthMin   = 0.08
	investmentGrowthRange = 0.12
	regularGrowthMin      = 0.02
	regularGrowthRange    = 0.05

	investmentVolatility = 0.05
	regularVolatility    = 0.08

	minVolume   = 100
	volumeRange = 1000
)

// GeneratePriceHistory synthesizes a yearly price path for a wine. The
// price compounds a noisy growth rate year over year while the trend
// follows the noiseless exponential curve from the same base price.
func GeneratePriceHistory(w *models.Wine, rng Rand) []models.PricePoint {
	basePrice := w.Price()
	if !w.HasPrice() {
		basePrice = float64(rng.Intn(estimatedPriceRange) + minEstimatedPrice)
	}

	grade := IsInvestmentWine(w)

	var annualGrowth, volatility float64
	if grade {
		annualGrowth = investmentGrowthMin + rng.Float64()*investmentGrowthRange
		volatility = investmentVolatility
	} else {
		annualGrowth = regularGrowthMin + rng.Float64()*regularGrowthRange
		volatility = regularVolatility
	}

	history := make([]models.PricePoint, 0, HistoryLength)
	price := basePrice
	for year := BaseYear; year <= CurrentYear; year++ {
		yearGrowth := annualGrowth + (rng.Float64()-0.5)*volatility
		price *= 1 + yearGrowth

		trend := basePrice * math.Pow(1+annualGrowth, float64(year-BaseYear))

		history = append(history, models.PricePoint{
			Year:   year,
			Price:  int(roundHalfUp(price)),
			Trend:  int(roundHalfUp(trend)),
			Volume: rng.Intn(volumeRange) + minVolume,
		})
	}

	return history
}
