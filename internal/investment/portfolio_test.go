package investment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/wine-investment-service/internal/models"
)

func candidate(id int, region, price, score, ret string) *models.InvestmentWine {
	c := &models.InvestmentWine{ID: id, Name: "wine", Region: region}
	if price != "" {
		c.Price = decimal.NewNullDecimal(dec(price))
	}
	if score != "" {
		c.InvestmentScore = decimal.NewNullDecimal(dec(score))
	}
	if ret != "" {
		c.FiveYearReturn = decimal.NewNullDecimal(dec(ret))
	}
	return c
}

func TestRiskProfileFor(t *testing.T) {
	assert.Equal(t, 8.5, RiskProfileFor("low").MinScore)
	assert.Equal(t, 6.0, RiskProfileFor("HIGH").MinScore)
	assert.Empty(t, RiskProfileFor("high").Regions)
	assert.Equal(t, 7.0, RiskProfileFor("reckless").MinScore)
	assert.Equal(t, "reckless", RiskProfileFor("reckless").Level)
	assert.Equal(t, "HIGH", RiskProfileFor("HIGH").Level)
	assert.Equal(t, "medium", RiskProfileFor("").Level)
}

func TestCandidateQuery(t *testing.T) {
	q := RiskProfileFor("low").CandidateQuery(dec("10000"))

	require.NotNil(t, q.MaxPrice)
	assertDecimal(t, "4000", *q.MaxPrice, "max price")
	require.NotNil(t, q.MinVintage)
	assert.Equal(t, 2000, *q.MinVintage)
	assert.Equal(t, []string{"bordeaux", "burgundy"}, q.Regions)
	assert.Equal(t, 20, q.Limit)
}

func TestBuildPortfolioDiversifies(t *testing.T) {
	candidates := []*models.InvestmentWine{
		candidate(1, "Bordeaux", "1000", "9.5", "60"),
		candidate(2, "bordeaux", "900", "9.4", "40"),
		candidate(3, "Bordeaux", "800", "9.3", "30"),
		candidate(4, "Burgundy", "2000", "9.2", "50"),
		candidate(5, "Burgundy", "3000", "9.1", "20"),
		candidate(6, "", "500", "9.0", ""),
	}

	p := BuildPortfolio(candidates, dec("5000"), RiskProfileFor("medium"))

	ids := make([]int, len(p.Wines))
	for i, w := range p.Wines {
		ids[i] = w.ID
	}
	// 3 exceeds the per-region cap, 5 exceeds the remaining budget.
	assert.Equal(t, []int{1, 2, 4, 6}, ids)
	assertDecimal(t, "4400", p.TotalCost, "total")
	assertDecimal(t, "600", p.RemainingBudget, "remaining")
	assert.Equal(t, []string{"bordeaux", "burgundy", "unknown"}, p.Regions)
	assert.Equal(t, 3, p.RegionCount)
	assert.Equal(t, 4, p.WineCount)
	assertDecimal(t, "9.3", p.AvgInvestmentScore, "avg score")
	assertDecimal(t, "37.5", p.AvgFiveYearReturn, "avg return")
	assertDecimal(t, "22.7", p.Wines[0].Allocation, "allocation")
	assert.Equal(t, "medium", p.RiskLevel)
}

func TestBuildPortfolioCapsAtSixWines(t *testing.T) {
	var candidates []*models.InvestmentWine
	for i := 0; i < 10; i++ {
		candidates = append(candidates, candidate(i, string(rune('a'+i)), "10", "8", "10"))
	}

	p := BuildPortfolio(candidates, dec("10000"), RiskProfileFor("high"))

	assert.Len(t, p.Wines, 6)
	assertDecimal(t, "60", p.TotalCost, "total")
}

func TestBuildPortfolioEmpty(t *testing.T) {
	p := BuildPortfolio(nil, dec("1000"), RiskProfileFor("low"))

	assert.Empty(t, p.Wines)
	assert.True(t, p.AvgInvestmentScore.IsZero())
	assertDecimal(t, "1000", p.RemainingBudget, "remaining")
}
