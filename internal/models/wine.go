package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultVintage is assumed for wines with no recorded vintage
const DefaultVintage = 2020

// Wine holds the catalog fields the investment synthesizer reads
type Wine struct {
	ID             int                 `json:"id"`
	Name           string              `json:"name,omitempty"`
	Region         string              `json:"region,omitempty"`
	Country        string              `json:"country,omitempty"`
	Classification string              `json:"classification,omitempty"`
	PriceRetail    decimal.NullDecimal `json:"price_retail"`
	Vintage        *int                `json:"vintage,omitempty"`
}

// Price returns the retail price, or 0 when the price is unknown
func (w *Wine) Price() float64 {
	if !w.PriceRetail.Valid {
		return 0
	}
	return w.PriceRetail.Decimal.InexactFloat64()
}

// HasPrice reports whether the wine carries a usable retail price
func (w *Wine) HasPrice() bool {
	return w.PriceRetail.Valid && w.PriceRetail.Decimal.IsPositive()
}

// VintageYear returns the vintage, falling back to DefaultVintage
func (w *Wine) VintageYear() int {
	if w.Vintage == nil || *w.Vintage == 0 {
		return DefaultVintage
	}
	return *w.Vintage
}

// CatalogWine is a full storefront catalog row, used when copying the
// catalog between databases
type CatalogWine struct {
	ID             int
	Name           *string
	Winery         *string
	Region         *string
	Country        *string
	GrapeVariety   *string
	Vintage        *int
	WineType       *string
	Style          *string
	Color          *string
	PriceRetail    decimal.NullDecimal
	PriceTrade     decimal.NullDecimal
	BottleSize     *string
	TastingNotes   *string
	CriticScores   []byte // raw JSONB
	DrinkingWindow *string
	Classification *string
	ImageURL       *string
	StockQuantity  *int
	CaseSize       *int
	IsActive       *bool
	Slug           *string
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
}
