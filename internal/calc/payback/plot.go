package payback

import "fmt"

const squareMetersPerHectare = 10000.0

// Plot is a planting block (talhão) with its own geometry and yield curve.
type Plot struct {
	ID            int
	AreaHa        float64
	RowSpacingM   float64
	PlantSpacingM float64
	// BaseYield is boxes per plant for years 4..13.
	BaseYield [BaseYieldYears]float64
	// Deflators chain the year-13 production into years 14..20.
	Deflators [DeflatorYears]float64
}

// StandDensity returns plants per hectare for the given spacings.
func StandDensity(rowM, plantM float64) (float64, error) {
	if rowM <= 0 || plantM <= 0 {
		return 0, fmt.Errorf("%w: spacings must be > 0 (row %g m, plant %g m)", ErrInvalidGeometry, rowM, plantM)
	}
	return squareMetersPerHectare / (rowM * plantM), nil
}

// Stand is the plot's stand density in plants per hectare.
func (p Plot) Stand() (float64, error) {
	return StandDensity(p.RowSpacingM, p.PlantSpacingM)
}

// Plants is the total number of plants in the plot.
func (p Plot) Plants() (float64, error) {
	stand, err := p.Stand()
	if err != nil {
		return 0, err
	}
	return stand * p.AreaHa, nil
}

// Production returns the plot's boxes per year for years 4..20. Years 4..13
// scale the plant count by the base yields; years 14..20 chain the year-13
// value through the deflators.
func (p Plot) Production() (Operational, error) {
	var s Operational
	plants, err := p.Plants()
	if err != nil {
		return s, fmt.Errorf("talhao %d: %w", p.ID, err)
	}
	for i, y := range p.BaseYield {
		s[i] = plants * y
	}
	last := s[BaseYieldYears-1]
	for i, d := range p.Deflators {
		last = last * d
		s[BaseYieldYears+i] = last
	}
	return s, nil
}

// Harvest is the aggregated production of a set of plots.
type Harvest struct {
	Total       Operational
	TotalAreaHa float64
	PerPlot     []Operational
}

// TotalProduction sums production and area over plots, keeping each plot's
// series in input order.
func TotalProduction(plots []Plot) (Harvest, error) {
	h := Harvest{PerPlot: make([]Operational, 0, len(plots))}
	for _, p := range plots {
		h.TotalAreaHa += p.AreaHa
		s, err := p.Production()
		if err != nil {
			return Harvest{}, err
		}
		h.PerPlot = append(h.PerPlot, s)
	}
	for _, s := range h.PerPlot {
		for i := range h.Total {
			h.Total[i] += s[i]
		}
	}
	return h, nil
}
