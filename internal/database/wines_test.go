package database

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/wine-investment-service/internal/models"
)

func sampleProfile(grade bool) *models.InvestmentProfile {
	ret := 42.5
	p := &models.InvestmentProfile{
		PriceHistory: []models.PricePoint{
			{Year: 2018, Price: 110, Trend: 100, Volume: 300},
			{Year: 2019, Price: 121, Trend: 112, Volume: 450},
		},
		IsInvestmentGrade: grade,
		InvestmentScore:   8.5,
		FiveYearReturn:    &ret,
		StorageType:       models.StorageBonded,
	}
	if grade {
		liv := 91
		p.LivExScore = &liv
	}
	return p
}

func TestWinesRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)
	ctx := context.Background()

	t.Run("ListWines pages by id", func(t *testing.T) {
		testDB.TruncateAll(t)
		for i := 0; i < 5; i++ {
			testDB.InsertTestWine(t, "Wine", "Bordeaux", "", floatPtr(120), yearPtr(2015))
		}

		first, err := testDB.ListWines(ctx, 0, 3)
		require.NoError(t, err)
		require.Len(t, first, 3)

		rest, err := testDB.ListWines(ctx, first[2].ID, 3)
		require.NoError(t, err)
		require.Len(t, rest, 2)
		assert.Greater(t, rest[0].ID, first[2].ID)

		empty, err := testDB.ListWines(ctx, rest[1].ID, 3)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("GetWine maps nullable columns", func(t *testing.T) {
		testDB.TruncateAll(t)
		id := testDB.InsertTestWine(t, "Mystery", "", "", nil, nil)

		w, err := testDB.GetWine(ctx, id)
		require.NoError(t, err)
		assert.False(t, w.PriceRetail.Valid)
		assert.Nil(t, w.Vintage)
		assert.Equal(t, models.DefaultVintage, w.VintageYear())
		assert.Equal(t, "Mystery", w.Name)
	})

	t.Run("GetWine returns ErrWineNotFound", func(t *testing.T) {
		testDB.TruncateAll(t)

		_, err := testDB.GetWine(ctx, 999)
		assert.True(t, errors.Is(err, ErrWineNotFound))
	})

	t.Run("UpdateInvestmentProfile round trips", func(t *testing.T) {
		testDB.TruncateAll(t)
		id := testDB.InsertTestWine(t, "Chateau", "Bordeaux", "First Growth", floatPtr(900), yearPtr(2005))

		require.NoError(t, testDB.UpdateInvestmentProfile(ctx, id, sampleProfile(true)))

		p, err := testDB.GetInvestmentProfile(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, sampleProfile(true), p)
	})

	t.Run("UpdateInvestmentProfile overwrites and clears optional fields", func(t *testing.T) {
		testDB.TruncateAll(t)
		id := testDB.InsertTestWine(t, "House Red", "Languedoc", "", floatPtr(12), nil)

		require.NoError(t, testDB.UpdateInvestmentProfile(ctx, id, sampleProfile(true)))

		regular := sampleProfile(false)
		regular.FiveYearReturn = nil
		regular.StorageType = models.StorageRetail
		require.NoError(t, testDB.UpdateInvestmentProfile(ctx, id, regular))

		p, err := testDB.GetInvestmentProfile(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, p.LivExScore)
		assert.Nil(t, p.FiveYearReturn)
		assert.False(t, p.IsInvestmentGrade)
		assert.Equal(t, models.StorageRetail, p.StorageType)
	})

	t.Run("price history is stored with string years", func(t *testing.T) {
		testDB.TruncateAll(t)
		id := testDB.InsertTestWine(t, "Chateau", "Bordeaux", "", floatPtr(200), nil)
		require.NoError(t, testDB.UpdateInvestmentProfile(ctx, id, sampleProfile(false)))

		var year string
		err := testDB.GetRawConn().QueryRow(`SELECT price_history->0->>'year' FROM wines WHERE id = $1`, id).Scan(&year)
		require.NoError(t, err)
		assert.Equal(t, "2018", year)
	})

	t.Run("UpdateInvestmentProfile on missing wine", func(t *testing.T) {
		testDB.TruncateAll(t)

		err := testDB.UpdateInvestmentProfile(ctx, 12345, sampleProfile(false))
		assert.True(t, errors.Is(err, ErrWineNotFound))
	})

	t.Run("GetInvestmentProfile before synthesis", func(t *testing.T) {
		testDB.TruncateAll(t)
		id := testDB.InsertTestWine(t, "Fresh", "Rioja", "", floatPtr(20), nil)

		_, err := testDB.GetInvestmentProfile(ctx, id)
		assert.True(t, errors.Is(err, ErrProfileNotFound))
	})

	t.Run("ListInvestmentWines filters and orders", func(t *testing.T) {
		testDB.TruncateAll(t)

		scores := []struct {
			region  string
			price   float64
			vintage int
			score   float64
			grade   bool
		}{
			{"Bordeaux", 900, 2005, 9.5, true},
			{"Burgundy", 300, 1995, 8.0, true},
			{"Champagne", 150, 2012, 6.5, true},
			{"Rioja", 40, 2019, 9.9, false},
		}
		for _, s := range scores {
			id := testDB.InsertTestWine(t, "Wine", s.region, "", floatPtr(s.price), yearPtr(s.vintage))
			p := sampleProfile(s.grade)
			p.InvestmentScore = s.score
			require.NoError(t, testDB.UpdateInvestmentProfile(ctx, id, p))
		}

		all, err := testDB.ListInvestmentWines(ctx, models.InvestmentQuery{MinScore: 7.0})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Bordeaux", all[0].Region)
		assert.True(t, decimal.NewFromFloat(9.5).Equal(all[0].InvestmentScore.Decimal))

		region, err := testDB.ListInvestmentWines(ctx, models.InvestmentQuery{Region: "BURG"})
		require.NoError(t, err)
		require.Len(t, region, 1)
		assert.Equal(t, "Burgundy", region[0].Region)

		maxPrice := decimal.NewFromInt(400)
		minVintage := 1990
		filtered, err := testDB.ListInvestmentWines(ctx, models.InvestmentQuery{
			MaxPrice:   &maxPrice,
			MinVintage: &minVintage,
			Regions:    []string{"burgundy", "champagne"},
		})
		require.NoError(t, err)
		require.Len(t, filtered, 2)
		assert.Equal(t, "Burgundy", filtered[0].Region)
		assert.Equal(t, "Champagne", filtered[1].Region)

		top, err := testDB.TopInvestmentWines(ctx, 1)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, "Bordeaux", top[0].Region)
	})
}
