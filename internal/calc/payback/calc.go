// Package payback projects an agricultural investment over a 20-year
// horizon: three implantation years followed by seventeen operational years.
// It derives production, price, revenue, cost and cash flow per year and
// locates the payback year under two conventions, operational-only
// (years 4..20) and full project (years 1..20).
package payback

import (
	"fmt"
	"math"
)

// Output is the result of one calculation. It shares no memory with the
// Scenario it was computed from.
type Output struct {
	Summary Summary       `json:"resumo"`
	Series  Series        `json:"series"`
	Full    ProjectSeries `json:"series_full"`
	Details Details       `json:"detalhes"`
}

type Summary struct {
	TotalAreaHa float64 `json:"area_total_ha"`
	// Payback counts only the operational window.
	Payback Payback `json:"payback_ano"`
	// PaybackFull includes the implantation years.
	PaybackFull Payback `json:"payback_ano_full"`
	// FinalCumulative is the operational cumulative cash flow in year 20.
	FinalCumulative float64 `json:"fc_acumulado_final"`
}

// Series holds the operational window, years 4..20.
type Series struct {
	Labels     [OperationalYears]string `json:"anos_rotulo"`
	Price      Operational              `json:"preco_por_caixa"`
	Production Operational              `json:"producao_total_caixas"`
	Revenue    Operational              `json:"receita_total"`
	Cost       Operational              `json:"custo_total"`
	CashFlow   Operational              `json:"fluxo_caixa"`
	Cumulative Operational              `json:"fluxo_caixa_acumulado"`
}

// ProjectSeries holds the whole project, years 1..20.
type ProjectSeries struct {
	Labels     [FullYears]string `json:"anos_rotulo_full"`
	Revenue    Full              `json:"receita_total_full"`
	Cost       Full              `json:"custo_total_full"`
	CashFlow   Full              `json:"fluxo_caixa_full"`
	Cumulative Full              `json:"fluxo_caixa_acumulado_full"`
}

type Details struct {
	Plots []PlotDetail `json:"por_talhao"`
	Costs CostDetail   `json:"custos"`
}

type PlotDetail struct {
	ID         int         `json:"talhao"`
	AreaHa     float64     `json:"area_ha"`
	StandPerHa float64     `json:"stand_pl_ha"`
	Plants     float64     `json:"plantas_totais"`
	Production Operational `json:"producao_caixas"`
}

type CostDetail struct {
	Implantation   Implantation  `json:"implantacao_total"`
	OpexPerHa      OpexBreakdown `json:"opex_por_categoria_por_ha"`
	HarvestFreight Operational   `json:"frete_colheita_por_ha"`
}

// Compute builds a Scenario from doc and calculates it.
func Compute(doc Document) (Output, error) {
	s, err := NewScenario(doc)
	if err != nil {
		return Output{}, err
	}
	return Calculate(s)
}

// Calculate runs the full pipeline: production, price, revenue, costs, cash
// flow and both paybacks.
func Calculate(s Scenario) (Output, error) {
	if err := s.Validate(); err != nil {
		return Output{}, err
	}

	harvest, err := TotalProduction(s.Plots)
	if err != nil {
		return Output{}, err
	}
	area := harvest.TotalAreaHa

	price, err := PriceSeries(s.Price.Base, s.Price.Factors)
	if err != nil {
		return Output{}, err
	}
	revenue := Revenue(harvest.Total, price)

	implantation, err := ImplantationCost(s.Implantation, area)
	if err != nil {
		return Output{}, err
	}
	opex, err := OpexPerHectare(s.Opex)
	if err != nil {
		return Output{}, err
	}
	hf, err := HarvestFreight(harvest.Total, area, s.LaborUnit, s.FreightUnit)
	if err != nil {
		return Output{}, err
	}
	cost := TotalCost(opex, hf, area)

	op, err := CashFlow(revenue[:], cost[:])
	if err != nil {
		return Output{}, err
	}
	fullRevenue := Concat(Implantation{}, revenue)
	fullCost := Concat(implantation, cost)
	full, err := CashFlow(fullRevenue[:], fullCost[:])
	if err != nil {
		return Output{}, err
	}

	out := Output{
		Summary: Summary{
			TotalAreaHa:     area,
			Payback:         op.Payback(FirstOperationalYear),
			PaybackFull:     full.Payback(1),
			FinalCumulative: op.Cumulative[len(op.Cumulative)-1],
		},
		Series: Series{
			Labels:     OperationalLabels(),
			Price:      price,
			Production: harvest.Total,
			Revenue:    revenue,
			Cost:       cost,
		},
		Full: ProjectSeries{
			Labels:  FullLabels(),
			Revenue: fullRevenue,
			Cost:    fullCost,
		},
		Details: Details{
			Costs: CostDetail{
				Implantation:   implantation,
				OpexPerHa:      opex,
				HarvestFreight: hf,
			},
		},
	}
	if err := fill(out.Series.CashFlow[:], op.Net); err != nil {
		return Output{}, err
	}
	if err := fill(out.Series.Cumulative[:], op.Cumulative); err != nil {
		return Output{}, err
	}
	if err := fill(out.Full.CashFlow[:], full.Net); err != nil {
		return Output{}, err
	}
	if err := fill(out.Full.Cumulative[:], full.Cumulative); err != nil {
		return Output{}, err
	}

	if err := out.checkFinite(); err != nil {
		return Output{}, err
	}

	out.Details.Plots = make([]PlotDetail, 0, len(s.Plots))
	for i, p := range s.Plots {
		stand, err := p.Stand()
		if err != nil {
			return Output{}, err
		}
		plants, err := p.Plants()
		if err != nil {
			return Output{}, err
		}
		out.Details.Plots = append(out.Details.Plots, PlotDetail{
			ID:         p.ID,
			AreaHa:     p.AreaHa,
			StandPerHa: stand,
			Plants:     plants,
			Production: harvest.PerPlot[i],
		})
	}
	return out, nil
}

type namedSeries struct {
	name string
	v    []float64
}

// checkFinite rejects scenarios whose inputs are finite but whose chained
// series overflow.
func (o *Output) checkFinite() error {
	series := []namedSeries{
		{"preco_por_caixa", o.Series.Price[:]},
		{"producao_total_caixas", o.Series.Production[:]},
		{"receita_total", o.Series.Revenue[:]},
		{"custo_total", o.Series.Cost[:]},
		{"fluxo_caixa_acumulado", o.Series.Cumulative[:]},
		{"implantacao_total", o.Details.Costs.Implantation[:]},
		{"frete_colheita_por_ha", o.Details.Costs.HarvestFreight[:]},
		{"fluxo_caixa_acumulado_full", o.Full.Cumulative[:]},
	}
	for _, c := range o.Details.Costs.OpexPerHa {
		series = append(series, namedSeries{"opex " + c.Name, c.PerHectare[:]})
	}
	for _, s := range series {
		for i, v := range s.v {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s[%d] is not finite (%g)", ErrInvalidInput, s.name, i, v)
			}
		}
	}
	return nil
}

func fill(dst, src []float64) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: expected %d periods, got %d", ErrLengthMismatch, len(dst), len(src))
	}
	copy(dst, src)
	return nil
}
