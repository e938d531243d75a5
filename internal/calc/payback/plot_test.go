package payback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandDensity(t *testing.T) {
	t.Run("ten thousand square meters over spacing", func(t *testing.T) {
		stand, err := StandDensity(7, 2.5)
		require.NoError(t, err)
		assert.InDelta(t, 571.428571, stand, 1e-6)
	})

	for _, tc := range []struct {
		name       string
		row, plant float64
	}{
		{"zero row", 0, 2},
		{"zero plant", 6, 0},
		{"negative row", -1, 2},
		{"negative plant", 6, -0.5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := StandDensity(tc.row, tc.plant)
			assert.ErrorIs(t, err, ErrInvalidGeometry)
		})
	}
}

func TestPlotProduction(t *testing.T) {
	p := Plot{
		ID:            7,
		AreaHa:        2,
		RowSpacingM:   5,
		PlantSpacingM: 2,
		BaseYield:     [BaseYieldYears]float64{0.5, 1, 1.5, 2, 2.5, 3, 3, 3, 3, 4},
		Deflators:     [DeflatorYears]float64{0.5, 2, 1, 1, 0.5, 1, 1},
	}

	plants, err := p.Plants()
	require.NoError(t, err)
	assert.Equal(t, 2000.0, plants)

	s, err := p.Production()
	require.NoError(t, err)
	assert.Len(t, s, OperationalYears)

	// years 4..13 scale plants directly
	assert.Equal(t, 1000.0, s[0])
	assert.Equal(t, 8000.0, s[9])
	// years 14..20 chain from year 13
	assert.Equal(t, []float64{4000, 8000, 8000, 8000, 4000, 4000, 4000}, s[BaseYieldYears:])
}

func TestPlotProductionZeroYields(t *testing.T) {
	p := Plot{ID: 1, AreaHa: 3, RowSpacingM: 4, PlantSpacingM: 2}
	s, err := p.Production()
	require.NoError(t, err)
	assert.Len(t, s, OperationalYears)
	assert.Equal(t, Operational{}, s)
}

func TestPlotProductionDeflatorOrderMatters(t *testing.T) {
	base := [BaseYieldYears]float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	a := Plot{ID: 1, AreaHa: 1, RowSpacingM: 1, PlantSpacingM: 1, BaseYield: base,
		Deflators: [DeflatorYears]float64{0.5, 2, 1, 1, 1, 1, 1}}
	b := a
	b.Deflators = [DeflatorYears]float64{2, 0.5, 1, 1, 1, 1, 1}

	sa, err := a.Production()
	require.NoError(t, err)
	sb, err := b.Production()
	require.NoError(t, err)

	assert.Equal(t, 5000.0, sa[BaseYieldYears])
	assert.Equal(t, 20000.0, sb[BaseYieldYears])
	assert.Equal(t, sa[OperationalYears-1], sb[OperationalYears-1])
}

func TestPlotProductionNegativeYieldNotClamped(t *testing.T) {
	p := Plot{ID: 1, AreaHa: 1, RowSpacingM: 1, PlantSpacingM: 1,
		BaseYield: [BaseYieldYears]float64{-1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		Deflators: [DeflatorYears]float64{-1, 1, 1, 1, 1, 1, 1}}
	s, err := p.Production()
	require.NoError(t, err)
	assert.Equal(t, -10000.0, s[0])
	assert.Equal(t, -10000.0, s[BaseYieldYears])
	assert.Equal(t, -10000.0, s[OperationalYears-1])
}

func TestPlotProductionInvalidGeometry(t *testing.T) {
	_, err := Plot{ID: 3, AreaHa: 1, RowSpacingM: 0, PlantSpacingM: 1}.Production()
	require.ErrorIs(t, err, ErrInvalidGeometry)
	assert.Contains(t, err.Error(), "talhao 3")
}

func TestTotalProduction(t *testing.T) {
	a := Plot{ID: 1, AreaHa: 1.5, RowSpacingM: 5, PlantSpacingM: 2,
		BaseYield: [BaseYieldYears]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		Deflators: [DeflatorYears]float64{0.9, 0.9, 0.9, 0.9, 0.9, 0.9, 0.9}}
	b := Plot{ID: 2, AreaHa: 2.5, RowSpacingM: 4, PlantSpacingM: 2.5,
		BaseYield: [BaseYieldYears]float64{2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
		Deflators: [DeflatorYears]float64{1, 1, 1, 1, 1, 1, 0}}

	h, err := TotalProduction([]Plot{a, b})
	require.NoError(t, err)
	assert.Equal(t, 4.0, h.TotalAreaHa)
	require.Len(t, h.PerPlot, 2)

	sa, _ := a.Production()
	sb, _ := b.Production()
	for i := range h.Total {
		assert.Equal(t, sa[i]+sb[i], h.Total[i], "year %d", i+FirstOperationalYear)
	}

	t.Run("order independent", func(t *testing.T) {
		r, err := TotalProduction([]Plot{b, a})
		require.NoError(t, err)
		assert.Equal(t, h.Total, r.Total)
		assert.Equal(t, h.TotalAreaHa, r.TotalAreaHa)
	})

	t.Run("failure aborts aggregation", func(t *testing.T) {
		bad := b
		bad.PlantSpacingM = -2
		_, err := TotalProduction([]Plot{a, bad})
		assert.ErrorIs(t, err, ErrInvalidGeometry)
	})
}
