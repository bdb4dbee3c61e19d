package investment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFiveYearReturn(t *testing.T) {
	t.Run("absent for short histories", func(t *testing.T) {
		assert.Nil(t, CalculateFiveYearReturn(nil))
		assert.Nil(t, CalculateFiveYearReturn(historyOf(100, 110, 120, 130)))
	})

	t.Run("uses the price five points before the end", func(t *testing.T) {
		ret := CalculateFiveYearReturn(historyOf(100, 110, 120, 130, 140, 150, 180))
		require.NotNil(t, ret)
		assert.InDelta(t, 50.0, *ret, 1e-9)
	})

	t.Run("exactly five points uses the first", func(t *testing.T) {
		ret := CalculateFiveYearReturn(historyOf(200, 210, 220, 230, 250))
		require.NotNil(t, ret)
		assert.InDelta(t, 25.0, *ret, 1e-9)
	})

	t.Run("negative halves round up", func(t *testing.T) {
		ret := CalculateFiveYearReturn(historyOf(16, 16, 16, 16, 15))
		require.NotNil(t, ret)
		assert.InDelta(t, -6.2, *ret, 1e-9)
	})

	t.Run("zero past price falls back to the first point", func(t *testing.T) {
		ret := CalculateFiveYearReturn(historyOf(50, 0, 60, 70, 80, 100))
		require.NotNil(t, ret)
		assert.InDelta(t, 100.0, *ret, 1e-9)
	})

	t.Run("present for every generated history", func(t *testing.T) {
		for seed := int64(0); seed < 50; seed++ {
			for _, w := range sampleWines {
				assert.NotNil(t, CalculateFiveYearReturn(GeneratePriceHistory(w, seeded(seed))))
			}
		}
	})
}
