package payback

import "fmt"

const (
	ImplantationYears = 3
	OperationalYears  = 17
	FullYears         = ImplantationYears + OperationalYears

	// FirstOperationalYear is the project year of Operational[0].
	FirstOperationalYear = ImplantationYears + 1

	BaseYieldYears = 10
	DeflatorYears  = OperationalYears - BaseYieldYears
	GrowthFactors  = OperationalYears - 1
)

// Operational is a per-year series for years 4..20.
type Operational [OperationalYears]float64

// Implantation is a per-year series for years 1..3.
type Implantation [ImplantationYears]float64

// Full is a per-year series for years 1..20.
type Full [FullYears]float64

// Chain returns base followed by the running product of base and factors.
// factors must hold GrowthFactors values.
func Chain(base float64, factors []float64) (Operational, error) {
	var s Operational
	if len(factors) != GrowthFactors {
		return s, fmt.Errorf("%w: need %d factors, got %d", ErrInvalidInput, GrowthFactors, len(factors))
	}
	s[0] = base
	for i, f := range factors {
		s[i+1] = s[i] * f
	}
	return s, nil
}

// Concat joins the implantation and operational windows into one project series.
func Concat(head Implantation, tail Operational) Full {
	var f Full
	copy(f[:ImplantationYears], head[:])
	copy(f[ImplantationYears:], tail[:])
	return f
}

// OperationalLabels are the year labels of the operational window ("4 anos".."20 anos").
func OperationalLabels() [OperationalYears]string {
	var l [OperationalYears]string
	for i := range l {
		l[i] = fmt.Sprintf("%d anos", i+FirstOperationalYear)
	}
	return l
}

// FullLabels are the year labels of the whole project ("Ano-01".."Ano-20").
func FullLabels() [FullYears]string {
	var l [FullYears]string
	for i := range l {
		l[i] = YearLabel(i + 1)
	}
	return l
}

// YearLabel formats a project year the way the reference workbook does.
func YearLabel(year int) string {
	return fmt.Sprintf("Ano-%02d", year)
}

func checkLen(field string, v []float64, want int) error {
	if len(v) != want {
		return fmt.Errorf("%w: %s must have %d values, got %d", ErrInvalidInput, field, want, len(v))
	}
	return nil
}
