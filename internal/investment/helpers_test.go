package investment

import (
	"math/rand"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/wine-investment-service/internal/models"
)

// scriptedRand replays fixed draws so tests can assert exact outputs
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		panic("scriptedRand: out of floats")
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptedRand) Intn(n int) int {
	if len(s.ints) == 0 {
		panic("scriptedRand: out of ints")
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func newWine(region, classification string, price float64, vintage int) *models.Wine {
	w := &models.Wine{ID: 1, Region: region, Classification: classification}
	if price > 0 {
		w.PriceRetail = decimal.NewNullDecimal(decimal.NewFromFloat(price))
	}
	if vintage > 0 {
		w.Vintage = &vintage
	}
	return w
}

func historyOf(prices ...int) []models.PricePoint {
	h := make([]models.PricePoint, len(prices))
	for i, p := range prices {
		h[i] = models.PricePoint{Year: BaseYear + i, Price: p, Trend: p, Volume: 100}
	}
	return h
}

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// sampleWines covers every grading and pricing path
var sampleWines = []*models.Wine{
	newWine("Bordeaux", "", 150, 2015),
	newWine("Languedoc", "", 50, 0),
	newWine("", "Grand Cru", 30, 2001),
	newWine("Burgundy", "Grand Cru", 800, 2010),
	newWine("Napa Valley", "Cult Wine", 0, 2018),
	newWine("Rioja", "", 0, 0),
	newWine("Mosel", "", 650, 1995),
	newWine("Piedmont", "", 99, 2022),
}
