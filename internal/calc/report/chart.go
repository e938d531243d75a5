package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"AgroSim/internal/calc/payback"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	cumulativeColor = color.RGBA{R: 34, G: 120, B: 60, A: 255}
	zeroColor       = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	revenueColor    = color.RGBA{R: 30, G: 90, B: 170, A: 255}
	costColor       = color.RGBA{R: 190, G: 50, B: 40, A: 255}
	cashFlowColor   = color.RGBA{R: 230, G: 150, B: 20, A: 255}
	productionColor = color.RGBA{R: 110, G: 160, B: 70, A: 255}
)

type line struct {
	name   string
	color  color.Color
	values []float64
}

func newPlot(title, yLabel string, labels []string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Add(plotter.NewGrid())
	p.NominalX(labels...)
	return p
}

func addLines(p *plot.Plot, zero bool, lines ...line) error {
	if zero {
		z := plotter.NewFunction(func(float64) float64 { return 0 })
		z.Color = zeroColor
		z.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(z)
	}
	for _, l := range lines {
		pts := make(plotter.XYs, len(l.values))
		for i, v := range l.values {
			pts[i].X = float64(i)
			pts[i].Y = v
		}
		pl, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("%s line: %w", l.name, err)
		}
		pl.Color = l.color
		pl.Width = vg.Points(2)
		p.Add(pl)
		if len(lines) > 1 {
			p.Legend.Add(l.name, pl)
		}
	}
	p.Legend.Top = true
	return nil
}

func render(p *plot.Plot, width, height vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// CumulativeChart renders the full-project cumulative cash flow as a PNG.
func CumulativeChart(out payback.Output, width, height vg.Length) ([]byte, error) {
	p := newPlot("Fluxo de caixa acumulado (Ano-01..Ano-20)", "R$", out.Full.Labels[:])
	if err := addLines(p, true, line{"Acumulado", cumulativeColor, out.Full.Cumulative[:]}); err != nil {
		return nil, err
	}
	return render(p, width, height)
}

// ProductionChart renders total production per operational year as bars.
func ProductionChart(out payback.Output, width, height vg.Length) ([]byte, error) {
	p := newPlot("Produção total (caixas)", "caixas", operationalTicks())
	bars, err := plotter.NewBarChart(plotter.Values(out.Series.Production[:]), vg.Points(12))
	if err != nil {
		return nil, fmt.Errorf("production bars: %w", err)
	}
	bars.Color = productionColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	return render(p, width, height)
}

// PriceChart renders the price per box over the operational years.
func PriceChart(out payback.Output, width, height vg.Length) ([]byte, error) {
	p := newPlot("Preço por caixa", "R$/caixa", operationalTicks())
	if err := addLines(p, false, line{"Preço", revenueColor, out.Series.Price[:]}); err != nil {
		return nil, err
	}
	return render(p, width, height)
}

// OperationalChart renders revenue against cost with the annual and
// cumulative cash flow of the operational years.
func OperationalChart(out payback.Output, width, height vg.Length) ([]byte, error) {
	s := out.Series
	p := newPlot("Receita x custo e fluxo de caixa (Ano-04..Ano-20)", "R$", operationalTicks())
	err := addLines(p, true,
		line{"Receita", revenueColor, s.Revenue[:]},
		line{"Custo", costColor, s.Cost[:]},
		line{"Fluxo anual", cashFlowColor, s.CashFlow[:]},
		line{"Acumulado", cumulativeColor, s.Cumulative[:]},
	)
	if err != nil {
		return nil, err
	}
	return render(p, width, height)
}

func operationalTicks() []string {
	labels := make([]string, payback.OperationalYears)
	for i := range labels {
		labels[i] = payback.YearLabel(i + payback.FirstOperationalYear)
	}
	return labels
}
