package payback

import "fmt"

// Price is the price per box: a year-4 base and the factors for years 5..20.
type Price struct {
	Base    float64
	Factors []float64
}

// Scenario is the validated input of one calculation.
type Scenario struct {
	Plots        []Plot
	Price        Price
	Implantation []ImplantationItem
	Opex         []OpexCategory
	// LaborUnit and FreightUnit are currency per box for years 4..20.
	LaborUnit   []float64
	FreightUnit []float64
}

// NewScenario converts an interchange document into a Scenario, rejecting
// missing, non-numeric and wrongly sized fields before anything is computed.
func NewScenario(doc Document) (Scenario, error) {
	var s Scenario
	if doc.Plots == nil {
		return Scenario{}, fmt.Errorf("%w: talhoes is required", ErrInvalidInput)
	}
	for i, pd := range doc.Plots {
		p, err := newPlot(fmt.Sprintf("talhoes[%d]", i), pd)
		if err != nil {
			return Scenario{}, err
		}
		s.Plots = append(s.Plots, p)
	}

	if doc.Prices == nil {
		return Scenario{}, fmt.Errorf("%w: precos is required", ErrInvalidInput)
	}
	base, err := doc.Prices.Base.Float("precos.preco_base")
	if err != nil {
		return Scenario{}, err
	}
	factors, err := floats("precos.fatores", doc.Prices.Factors, GrowthFactors)
	if err != nil {
		return Scenario{}, err
	}
	s.Price = Price{Base: base, Factors: factors}

	if doc.Costs == nil {
		return Scenario{}, fmt.Errorf("%w: custos is required", ErrInvalidInput)
	}
	c := doc.Costs
	if c.Implantation == nil {
		return Scenario{}, fmt.Errorf("%w: custos.implantacao_itens is required", ErrInvalidInput)
	}
	for i, it := range c.Implantation {
		field := fmt.Sprintf("custos.implantacao_itens[%d]", i)
		unit, err := it.UnitValue.floatOr(field+".valor_unitario", 0)
		if err != nil {
			return Scenario{}, err
		}
		qty := make([]float64, ImplantationYears)
		if it.Quantities != nil {
			if qty, err = floats(field+".qtd_ano", it.Quantities, ImplantationYears); err != nil {
				return Scenario{}, err
			}
		}
		s.Implantation = append(s.Implantation, ImplantationItem{Name: it.Name, UnitValue: unit, Quantities: qty})
	}

	if c.Opex == nil {
		return Scenario{}, fmt.Errorf("%w: custos.opex_categorias is required", ErrInvalidInput)
	}
	for i, od := range c.Opex {
		field := fmt.Sprintf("custos.opex_categorias[%d]", i)
		if od.Name == nil {
			return Scenario{}, fmt.Errorf("%w: %s.nome is required", ErrInvalidInput, field)
		}
		b, err := od.BasePerHa.Float(field + ".base_ano4_por_ha")
		if err != nil {
			return Scenario{}, err
		}
		m, err := floats(field+".multiplicadores", od.Multipliers, GrowthFactors)
		if err != nil {
			return Scenario{}, err
		}
		s.Opex = append(s.Opex, OpexCategory{Name: *od.Name, BasePerHa: b, Multipliers: m})
	}

	if s.LaborUnit, err = floats("custos.colheita_mo_unit", c.LaborUnit, OperationalYears); err != nil {
		return Scenario{}, err
	}
	if s.FreightUnit, err = floats("custos.colheita_frete_unit", c.FreightUnit, OperationalYears); err != nil {
		return Scenario{}, err
	}

	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

func newPlot(field string, pd PlotDoc) (Plot, error) {
	var p Plot
	var err error
	if p.ID, err = pd.ID.Int(field + ".talhao"); err != nil {
		return Plot{}, err
	}
	if p.AreaHa, err = pd.AreaHa.Float(field + ".area_ha"); err != nil {
		return Plot{}, err
	}
	if p.RowSpacingM, err = pd.RowM.Float(field + ".rua_m"); err != nil {
		return Plot{}, err
	}
	if p.PlantSpacingM, err = pd.PlantM.Float(field + ".plantas_m"); err != nil {
		return Plot{}, err
	}
	base, err := floats(field+".prod_cx_planta_base", pd.BaseYield, BaseYieldYears)
	if err != nil {
		return Plot{}, err
	}
	defl, err := floats(field+".prod_deflatores", pd.Deflators, DeflatorYears)
	if err != nil {
		return Plot{}, err
	}
	copy(p.BaseYield[:], base)
	copy(p.Deflators[:], defl)
	return p, nil
}

// Validate checks the invariants a Scenario built by hand may violate.
func (s Scenario) Validate() error {
	if len(s.Plots) == 0 {
		return fmt.Errorf("%w: at least one talhao is required", ErrInvalidInput)
	}
	for _, p := range s.Plots {
		if p.AreaHa <= 0 {
			return fmt.Errorf("%w: talhao %d: area_ha must be > 0, got %g", ErrInvalidInput, p.ID, p.AreaHa)
		}
		if _, err := p.Stand(); err != nil {
			return fmt.Errorf("talhao %d: %w", p.ID, err)
		}
	}
	if s.Price.Base < 0 {
		return fmt.Errorf("%w: preco_base must not be negative, got %g", ErrInvalidInput, s.Price.Base)
	}
	if err := checkLen("precos.fatores", s.Price.Factors, GrowthFactors); err != nil {
		return err
	}
	for _, it := range s.Implantation {
		if err := checkLen(fmt.Sprintf("implantacao %q qtd_ano", it.Name), it.Quantities, ImplantationYears); err != nil {
			return err
		}
	}
	for _, c := range s.Opex {
		if err := checkLen(fmt.Sprintf("categoria %q multiplicadores", c.Name), c.Multipliers, GrowthFactors); err != nil {
			return err
		}
	}
	if err := checkLen("colheita_mo_unit", s.LaborUnit, OperationalYears); err != nil {
		return err
	}
	return checkLen("colheita_frete_unit", s.FreightUnit, OperationalYears)
}
