package investment

import (
	"github.com/shopspring/decimal"
	"github.com/trogers1052/wine-investment-service/internal/models"
)

var (
	defaultROIPrice        = decimal.NewFromInt(100)
	defaultAnnualReturn    = decimal.NewFromInt(8)
	defaultInvestment      = decimal.NewFromInt(1000)
	defaultHoldingYears    = 5
	bottlesPerCase         = decimal.NewFromInt(12)
	insuranceRate          = decimal.RequireFromString("0.005")
	dutyRate               = decimal.RequireFromString("0.25")
	defaultStorageCaseCost = decimal.NewFromInt(15)
	hundred                = decimal.NewFromInt(100)
)

// storageCaseCosts is the yearly cost of storing one case
var storageCaseCosts = map[models.StorageType]decimal.Decimal{
	models.StorageBonded:        decimal.NewFromInt(15),
	models.StoragePrivateCellar: decimal.NewFromInt(8),
}

// ROIRequest describes a hypothetical purchase of a wine
type ROIRequest struct {
	Wine           string
	Price          decimal.NullDecimal
	FiveYearReturn decimal.NullDecimal
	Amount         decimal.Decimal
	HoldingYears   int
	StorageType    models.StorageType
}

// ROICosts breaks down the holding costs of an investment
type ROICosts struct {
	Storage   decimal.Decimal `json:"storage"`
	Insurance decimal.Decimal `json:"insurance"`
	Duty      decimal.Decimal `json:"duty"`
	Total     decimal.Decimal `json:"total"`
}

// ROIResult is the projected outcome of holding a wine
type ROIResult struct {
	Wine             string             `json:"wine"`
	InvestmentAmount decimal.Decimal    `json:"investmentAmount"`
	Bottles          int64              `json:"bottles"`
	HoldingYears     int                `json:"holdingYears"`
	StorageType      models.StorageType `json:"storageType"`
	ProjectedValue   decimal.Decimal    `json:"projectedValue"`
	GrossReturn      decimal.Decimal    `json:"grossReturn"`
	Costs            ROICosts           `json:"costs"`
	NetReturn        decimal.Decimal    `json:"netReturn"`
	ROIPercentage    decimal.Decimal    `json:"roiPercentage"`
	AnnualizedReturn decimal.Decimal    `json:"annualizedReturn"`
}

// CalculateROI projects value growth from the wine's five-year return and
// subtracts storage, insurance and, outside bond, duty.
func CalculateROI(req ROIRequest) *ROIResult {
	price := defaultROIPrice
	if req.Price.Valid && req.Price.Decimal.IsPositive() {
		price = req.Price.Decimal
	}

	annualReturn := defaultAnnualReturn
	if req.FiveYearReturn.Valid && !req.FiveYearReturn.Decimal.IsZero() {
		annualReturn = req.FiveYearReturn.Decimal.Div(decimal.NewFromInt(int64(fiveYearWindow)))
	}

	amount := req.Amount
	if !amount.IsPositive() {
		amount = defaultInvestment
	}
	years := req.HoldingYears
	if years <= 0 {
		years = defaultHoldingYears
	}
	storageType := req.StorageType
	if storageType == "" {
		storageType = models.StorageBonded
	}

	bottles := amount.Div(price).Truncate(0)
	cases := bottles.Div(bottlesPerCase)
	yearsDec := decimal.NewFromInt(int64(years))

	growth := decimal.NewFromInt(1).Add(annualReturn.Div(hundred))
	projected := amount.Mul(growth.Pow(yearsDec))
	gross := projected.Sub(amount)

	caseCost, ok := storageCaseCosts[storageType]
	if !ok {
		caseCost = defaultStorageCaseCost
	}
	storageCost := caseCost.Mul(cases).Mul(yearsDec)
	insuranceCost := amount.Mul(insuranceRate).Mul(yearsDec)
	dutyCost := decimal.Zero
	if storageType != models.StorageBonded {
		dutyCost = amount.Mul(dutyRate)
	}

	totalCosts := storageCost.Add(insuranceCost).Add(dutyCost)
	net := gross.Sub(totalCosts)

	return &ROIResult{
		Wine:             req.Wine,
		InvestmentAmount: amount,
		Bottles:          bottles.IntPart(),
		HoldingYears:     years,
		StorageType:      storageType,
		ProjectedValue:   projected.Round(2),
		GrossReturn:      gross.Round(2),
		Costs: ROICosts{
			Storage:   storageCost.Round(2),
			Insurance: insuranceCost.Round(2),
			Duty:      dutyCost.Round(2),
			Total:     totalCosts.Round(2),
		},
		NetReturn:        net.Round(2),
		ROIPercentage:    net.Div(amount).Mul(hundred).Round(1),
		AnnualizedReturn: annualReturn.Round(1),
	}
}
