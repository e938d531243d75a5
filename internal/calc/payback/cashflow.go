package payback

import (
	"fmt"
	"strconv"
)

// Payback is either a project year or "not reached". The zero value is not reached.
type Payback struct {
	year int
}

// PaybackAt reports payback reached in the given project year.
func PaybackAt(year int) Payback {
	return Payback{year: year}
}

// Year returns the payback year and whether it was reached.
func (p Payback) Year() (int, bool) {
	return p.year, p.year > 0
}

func (p Payback) String() string {
	if y, ok := p.Year(); ok {
		return YearLabel(y)
	}
	return "Não atingiu"
}

// MarshalJSON encodes the year, or null when not reached.
func (p Payback) MarshalJSON() ([]byte, error) {
	y, ok := p.Year()
	if !ok {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(y)), nil
}

// Flow is the per-period and cumulative cash flow of a revenue/cost pair.
type Flow struct {
	Net        []float64
	Cumulative []float64
	first      int
}

// PaybackIndex returns the first period whose cumulative flow is >= 0.
func (f Flow) PaybackIndex() (int, bool) {
	return f.first, f.first >= 0
}

// Payback labels the payback index with project years, period 0 being firstYear.
func (f Flow) Payback(firstYear int) Payback {
	i, ok := f.PaybackIndex()
	if !ok {
		return Payback{}
	}
	return PaybackAt(i + firstYear)
}

// CashFlow returns revenue minus cost per period, its running sum, and the
// first period where the running sum reaches zero.
func CashFlow(revenue, cost []float64) (Flow, error) {
	if len(revenue) != len(cost) || len(revenue) == 0 {
		return Flow{}, fmt.Errorf("%w: revenue has %d periods, cost has %d", ErrLengthMismatch, len(revenue), len(cost))
	}
	f := Flow{
		Net:        make([]float64, len(revenue)),
		Cumulative: make([]float64, len(revenue)),
		first:      -1,
	}
	acc := 0.0
	for i := range revenue {
		f.Net[i] = revenue[i] - cost[i]
		acc += f.Net[i]
		f.Cumulative[i] = acc
		if f.first < 0 && acc >= 0 {
			f.first = i
		}
	}
	return f, nil
}
