package payback

import "fmt"

// PriceSeries returns the price per box for years 4..20: base, then each
// year the previous price times the next factor.
func PriceSeries(base float64, factors []float64) (Operational, error) {
	if base < 0 {
		return Operational{}, fmt.Errorf("%w: base price must not be negative, got %g", ErrInvalidInput, base)
	}
	s, err := Chain(base, factors)
	if err != nil {
		return Operational{}, fmt.Errorf("price factors: %w", err)
	}
	return s, nil
}

// Revenue multiplies production by price year by year.
func Revenue(production, price Operational) Operational {
	var r Operational
	for i := range r {
		r[i] = production[i] * price[i]
	}
	return r
}
