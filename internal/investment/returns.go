package investment

import "github.com/trogers1052/wine-investment-service/internal/models"

const fiveYearWindow = 5

// CalculateFiveYearReturn returns the percentage change between the price
// five points before the end of the history and the latest price, rounded
// to one decimal. It returns nil for histories shorter than five points.
func CalculateFiveYearReturn(history []models.PricePoint) *float64 {
	if len(history) < fiveYearWindow {
		return nil
	}

	past := float64(history[len(history)-fiveYearWindow].Price)
	if past == 0 {
		past = float64(history[0].Price)
	}
	if past == 0 {
		return nil
	}
	current := float64(history[len(history)-1].Price)

	ret := roundTo((current-past)/past*100, 1)
	return &ret
}
