package payback

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func strPtr(s string) *string { return &s }

// unitDocument is one hectare at 1 m x 1 m, one box per plant, flat prices
// of 10 and no costs.
func unitDocument() Document {
	return Document{
		Plots: []PlotDoc{{
			ID:        NumberOf(1),
			AreaHa:    NumberOf(1),
			RowM:      NumberOf(1),
			PlantM:    NumberOf(1),
			BaseYield: Numbers(repeat(1, BaseYieldYears)...),
			Deflators: Numbers(repeat(1, DeflatorYears)...),
		}},
		Prices: &PricesDoc{
			Base:    NumberOf(10),
			Factors: Numbers(repeat(1, GrowthFactors)...),
		},
		Costs: &CostsDoc{
			Implantation: []ImplantationDoc{},
			Opex:         []OpexDoc{},
			LaborUnit:    Numbers(repeat(0, OperationalYears)...),
			FreightUnit:  Numbers(repeat(0, OperationalYears)...),
		},
	}
}

func unitScenario(t *testing.T) Scenario {
	t.Helper()
	s, err := NewScenario(unitDocument())
	require.NoError(t, err)
	return s
}

func loadExample(t *testing.T) Document {
	t.Helper()
	f, err := os.Open("testdata/scenario_exemplo.json")
	require.NoError(t, err)
	defer f.Close()
	doc, err := DecodeJSON(f)
	require.NoError(t, err)
	return doc
}
