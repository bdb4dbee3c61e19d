package investment

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/wine-investment-service/internal/models"
)

// RiskProfile constrains which wines a portfolio may draw from
type RiskProfile struct {
	Level      string
	MinScore   float64
	Regions    []string
	MinVintage int
}

var riskProfiles = map[string]RiskProfile{
	"low":    {Level: "low", MinScore: 8.5, Regions: []string{"bordeaux", "burgundy"}, MinVintage: 2000},
	"medium": {Level: "medium", MinScore: 7.0, Regions: []string{"bordeaux", "burgundy", "champagne", "tuscany"}, MinVintage: 1990},
	"high":   {Level: "high", MinScore: 6.0, MinVintage: 1980},
}

const (
	maxPortfolioWines     = 6
	maxWinesPerRegion     = 2
	portfolioCandidateCap = 20
	unknownRegion         = "unknown"
)

var maxSingleWineShare = decimal.RequireFromString("0.4")

// RiskProfileFor returns the profile for a risk level. Unknown levels use the
// medium constraints but keep the level as requested; empty means medium.
func RiskProfileFor(level string) RiskProfile {
	p, ok := riskProfiles[strings.ToLower(level)]
	if !ok {
		p = riskProfiles["medium"]
	}
	if level != "" {
		p.Level = level
	}
	return p
}

// CandidateQuery builds the store query for a portfolio's candidate wines.
// No single wine may cost more than 40% of the budget.
func (p RiskProfile) CandidateQuery(budget decimal.Decimal) models.InvestmentQuery {
	maxPrice := budget.Mul(maxSingleWineShare)
	minVintage := p.MinVintage
	return models.InvestmentQuery{
		MinScore:   p.MinScore,
		MaxPrice:   &maxPrice,
		MinVintage: &minVintage,
		Regions:    p.Regions,
		Limit:      portfolioCandidateCap,
	}
}

// PortfolioWine is a selected holding
type PortfolioWine struct {
	ID              int                 `json:"id"`
	Name            string              `json:"name"`
	Region          string              `json:"region"`
	Vintage         *int                `json:"vintage,omitempty"`
	Price           decimal.Decimal     `json:"price"`
	InvestmentScore decimal.NullDecimal `json:"investmentScore"`
	FiveYearReturn  decimal.NullDecimal `json:"fiveYearReturn"`
	Allocation      decimal.Decimal     `json:"allocation"`
}

// Portfolio is a diversified selection of investment wines
type Portfolio struct {
	Wines              []PortfolioWine `json:"portfolio"`
	TotalCost          decimal.Decimal `json:"totalCost"`
	RemainingBudget    decimal.Decimal `json:"remainingBudget"`
	WineCount          int             `json:"wineCount"`
	RegionCount        int             `json:"regionCount"`
	Regions            []string        `json:"regions"`
	AvgInvestmentScore decimal.Decimal `json:"avgInvestmentScore"`
	AvgFiveYearReturn  decimal.Decimal `json:"avgFiveYearReturn"`
	RiskLevel          string          `json:"riskLevel"`
}

// BuildPortfolio selects wines from candidates, already ordered by score,
// holding at most two wines per region and six overall within budget.
func BuildPortfolio(candidates []*models.InvestmentWine, budget decimal.Decimal, risk RiskProfile) *Portfolio {
	p := &Portfolio{
		Wines:     []PortfolioWine{},
		Regions:   []string{},
		TotalCost: decimal.Zero,
		RiskLevel: risk.Level,
	}
	perRegion := make(map[string]int)

	for _, c := range candidates {
		if len(p.Wines) >= maxPortfolioWines {
			break
		}

		key := strings.ToLower(c.Region)
		if key == "" {
			key = unknownRegion
		}
		if perRegion[key] >= maxWinesPerRegion {
			continue
		}

		price := decimal.Zero
		if c.Price.Valid {
			price = c.Price.Decimal
		}
		if p.TotalCost.Add(price).GreaterThan(budget) {
			continue
		}

		p.Wines = append(p.Wines, PortfolioWine{
			ID:              c.ID,
			Name:            c.Name,
			Region:          c.Region,
			Vintage:         c.Vintage,
			Price:           price,
			InvestmentScore: c.InvestmentScore,
			FiveYearReturn:  c.FiveYearReturn,
		})
		p.TotalCost = p.TotalCost.Add(price)
		if perRegion[key] == 0 {
			p.Regions = append(p.Regions, key)
		}
		perRegion[key]++
	}

	scoreSum, returnSum := decimal.Zero, decimal.Zero
	for i := range p.Wines {
		w := &p.Wines[i]
		if p.TotalCost.IsPositive() {
			w.Allocation = w.Price.Div(p.TotalCost).Mul(hundred).Round(1)
		}
		if w.InvestmentScore.Valid {
			scoreSum = scoreSum.Add(w.InvestmentScore.Decimal)
		}
		if w.FiveYearReturn.Valid {
			returnSum = returnSum.Add(w.FiveYearReturn.Decimal)
		}
	}

	p.WineCount = len(p.Wines)
	p.RegionCount = len(p.Regions)
	if p.WineCount > 0 {
		n := decimal.NewFromInt(int64(p.WineCount))
		p.AvgInvestmentScore = scoreSum.Div(n).Round(1)
		p.AvgFiveYearReturn = returnSum.Div(n).Round(1)
	}
	p.TotalCost = p.TotalCost.Round(2)
	p.RemainingBudget = budget.Sub(p.TotalCost).Round(2)

	return p
}
