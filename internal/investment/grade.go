// Package investment synthesizes investment analytics for catalog wines:
// price history, grading, scoring, storage assignment, and the ROI and
// portfolio calculations built on top of them.
package investment

import (
	"strings"

	"github.com/trogers1052/wine-investment-service/internal/models"
)

// Rand is the random source the synthesizer draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// InvestmentRegions are the prestige regions, matched by substring
var InvestmentRegions = []string{"bordeaux", "burgundy", "champagne", "tuscany", "piedmont", "rhone", "napa"}

// InvestmentClassifications are the prestige classifications, matched by substring
var InvestmentClassifications = []string{"first growth", "grand cru", "premier cru", "super tuscan", "cult wine"}

const (
	regionGradeMinPrice = 100
	highValuePrice      = 500
)

// IsInvestmentGrade decides whether a wine qualifies as investment grade
func IsInvestmentGrade(region, classification string, price float64) bool {
	region = strings.ToLower(region)
	classification = strings.ToLower(classification)

	prestigeRegion := containsAny(region, InvestmentRegions)
	prestigeClassification := containsAny(classification, InvestmentClassifications)

	return (prestigeRegion && price >= regionGradeMinPrice) || prestigeClassification || price >= highValuePrice
}

// IsInvestmentWine applies IsInvestmentGrade to a catalog wine
func IsInvestmentWine(w *models.Wine) bool {
	return IsInvestmentGrade(w.Region, w.Classification, w.Price())
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
