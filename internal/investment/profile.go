package investment

import "github.com/trogers1052/wine-investment-service/internal/models"

const (
	minLivExScore = 70
	maxLivExScore = 100
)

// LivExScore draws a market-quality score in [70, 100]
func LivExScore(rng Rand) int {
	return rng.Intn(maxLivExScore-minLivExScore+1) + minLivExScore
}

// Synthesize computes the full investment profile for one wine. All random
// draws come from rng, in a fixed order: price history, storage type, then
// the Liv-ex score for investment-grade wines.
func Synthesize(w *models.Wine, rng Rand) *models.InvestmentProfile {
	history := GeneratePriceHistory(w, rng)
	grade := IsInvestmentWine(w)

	profile := &models.InvestmentProfile{
		PriceHistory:      history,
		IsInvestmentGrade: grade,
		InvestmentScore:   CalculateInvestmentScore(w, history),
		FiveYearReturn:    CalculateFiveYearReturn(history),
		StorageType:       AssignStorageType(w, rng),
	}

	if grade {
		score := LivExScore(rng)
		profile.LivExScore = &score
	}

	return profile
}
