package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StorageType is where an investment wine is held
type StorageType string

const (
	StorageBonded        StorageType = "bonded"
	StoragePrivateCellar StorageType = "private_cellar"
	StorageRetail        StorageType = "retail"
)

// Valid reports whether s is one of the known storage types
func (s StorageType) Valid() bool {
	switch s {
	case StorageBonded, StoragePrivateCellar, StorageRetail:
		return true
	}
	return false
}

// PricePoint is one year of synthetic market data. Year is encoded as a
// JSON string because the storefront charts key their x-axis on it.
type PricePoint struct {
	Year   int `json:"year,string"`
	Price  int `json:"price"`
	Trend  int `json:"trend"`
	Volume int `json:"volume"`
}

// InvestmentProfile holds the derived investment fields persisted on a wine
type InvestmentProfile struct {
	PriceHistory      []PricePoint `json:"price_history"`
	IsInvestmentGrade bool         `json:"is_investment_grade"`
	InvestmentScore   float64      `json:"investment_score"`
	FiveYearReturn    *float64     `json:"five_year_return"`
	StorageType       StorageType  `json:"storage_type"`
	LivExScore        *int         `json:"liv_ex_score"`
}

// InvestmentWine is a read-side row for investment listings and reports
type InvestmentWine struct {
	ID              int                 `json:"id"`
	Name            string              `json:"name"`
	Region          string              `json:"region"`
	Vintage         *int                `json:"vintage,omitempty"`
	Price           decimal.NullDecimal `json:"price"`
	InvestmentScore decimal.NullDecimal `json:"investment_score"`
	FiveYearReturn  decimal.NullDecimal `json:"five_year_return"`
	StorageType     string              `json:"storage_type,omitempty"`
	LivExScore      *int                `json:"liv_ex_score,omitempty"`
}

// InvestmentQuery filters investment-grade wines
type InvestmentQuery struct {
	MinScore   float64
	Region     string
	MaxPrice   *decimal.Decimal
	MinVintage *int
	Regions    []string // any-of substring match, ignored when empty
	Limit      int
}

// BatchSummary reports the outcome of a synthesis run
type BatchSummary struct {
	RunID           string        `json:"run_id"`
	Total           int           `json:"total"`
	Updated         int           `json:"updated"`
	InvestmentGrade int           `json:"investment_grade"`
	Skipped         int           `json:"skipped"`
	Failed          int           `json:"failed"`
	Duration        time.Duration `json:"duration"`
	StartedAt       time.Time     `json:"started_at"`
}

// Regular returns the number of updated wines that are not investment grade
func (s BatchSummary) Regular() int {
	return s.Updated - s.InvestmentGrade
}
