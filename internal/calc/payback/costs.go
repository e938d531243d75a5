package payback

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ImplantationItem is one line of the pre-operational budget.
type ImplantationItem struct {
	Name      string
	UnitValue float64
	// Quantities per hectare for years 1..3.
	Quantities []float64
}

// ImplantationCost returns the total implantation cost for years 1..3:
// per year, the sum of quantity times unit value over all items, scaled by area.
func ImplantationCost(items []ImplantationItem, areaHa float64) (Implantation, error) {
	var perHa Implantation
	for n, it := range items {
		if err := checkLen(fmt.Sprintf("implantacao_itens[%d].qtd_ano", n), it.Quantities, ImplantationYears); err != nil {
			return Implantation{}, err
		}
		for i := range perHa {
			// explicit conversion keeps the product from fusing into the sum
			perHa[i] += float64(it.Quantities[i] * it.UnitValue)
		}
	}
	var total Implantation
	for i := range total {
		total[i] = perHa[i] * areaHa
	}
	return total, nil
}

// OpexCategory is a recurring operating cost line per hectare.
type OpexCategory struct {
	Name      string
	BasePerHa float64
	// Multipliers chain the year-4 base into years 5..20.
	Multipliers []float64
}

// CategorySeries is the per-hectare cost of one opex category.
type CategorySeries struct {
	Name       string
	PerHectare Operational
}

// OpexBreakdown lists category series in order of first appearance.
type OpexBreakdown []CategorySeries

// MarshalJSON encodes the breakdown as an object keyed by category name,
// preserving order.
func (b OpexBreakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.PerHectare)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the series for a category name.
func (b OpexBreakdown) Get(name string) (Operational, bool) {
	for _, c := range b {
		if c.Name == name {
			return c.PerHectare, true
		}
	}
	return Operational{}, false
}

// OpexPerHectare chains every category's base through its multipliers.
// A repeated name replaces the earlier values but keeps the earlier position.
func OpexPerHectare(categories []OpexCategory) (OpexBreakdown, error) {
	out := make(OpexBreakdown, 0, len(categories))
	pos := make(map[string]int, len(categories))
	for _, c := range categories {
		s, err := Chain(c.BasePerHa, c.Multipliers)
		if err != nil {
			return nil, fmt.Errorf("categoria %q: multiplicadores: %w", c.Name, err)
		}
		if i, ok := pos[c.Name]; ok {
			out[i].PerHectare = s
			continue
		}
		pos[c.Name] = len(out)
		out = append(out, CategorySeries{Name: c.Name, PerHectare: s})
	}
	return out, nil
}

// HarvestFreight returns harvest labor plus freight cost per hectare:
// (labor + freight) per box times boxes per hectare.
func HarvestFreight(production Operational, areaHa float64, labor, freight []float64) (Operational, error) {
	if areaHa <= 0 {
		return Operational{}, fmt.Errorf("%w: total area must be > 0, got %g", ErrInvalidInput, areaHa)
	}
	if err := checkLen("colheita_mo_unit", labor, OperationalYears); err != nil {
		return Operational{}, err
	}
	if err := checkLen("colheita_frete_unit", freight, OperationalYears); err != nil {
		return Operational{}, err
	}
	var s Operational
	for i := range s {
		s[i] = (labor[i] + freight[i]) * (production[i] / areaHa)
	}
	return s, nil
}

// TotalCost sums opex categories and harvest/freight per hectare and scales
// the result by area.
func TotalCost(opex OpexBreakdown, harvestFreight Operational, areaHa float64) Operational {
	var perHa Operational
	for _, c := range opex {
		for i := range perHa {
			perHa[i] += c.PerHectare[i]
		}
	}
	for i := range perHa {
		perHa[i] += harvestFreight[i]
	}
	var total Operational
	for i := range total {
		total[i] = perHa[i] * areaHa
	}
	return total
}
