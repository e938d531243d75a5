package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"AgroSim/internal/calc/payback"

	"github.com/google/uuid"
	"github.com/phpdave11/gofpdf"
	"gonum.org/v1/plot/vg"
)

// Meta describes the report cover.
type Meta struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

const defaultTitle = "AgroSim - Simulador de Plantio e Payback"

// PDF writes the payback report: summary, charts and the detail tables.
func PDF(w io.Writer, out payback.Output, meta Meta, now time.Time) error {
	if meta.Title == "" {
		meta.Title = defaultTitle
	}
	chart, err := CumulativeChart(out, 7*vg.Inch, 3.5*vg.Inch)
	if err != nil {
		return err
	}
	var operational [3][]byte
	for i, draw := range []func(payback.Output, vg.Length, vg.Length) ([]byte, error){
		ProductionChart, PriceChart, OperationalChart,
	} {
		if operational[i], err = draw(out, 7*vg.Inch, 2.8*vg.Inch); err != nil {
			return err
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(meta.Title), false)
	pdf.SetAuthor(tr(meta.Author), false)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(meta.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, tr(fmt.Sprintf("Projeto: %s", meta.Project)))
	pdf.Ln(5)
	pdf.Cell(0, 5, tr(fmt.Sprintf("Autor: %s", meta.Author)))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Data: %s", now.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Relatorio: %s", uuid.NewString()))
	pdf.Ln(8)

	section(pdf, tr, "Resumo executivo")
	s := out.Summary
	summary := [][2]string{
		{"Área total (ha)", Number(s.TotalAreaHa, 2)},
		{"Payback (Excel)", s.PaybackFull.String()},
		{"Payback (Ano-04..20)", s.Payback.String()},
		{"FC acumulado final (Ano-20)", BRL(out.Full.Cumulative[payback.FullYears-1])},
	}
	for _, row := range summary {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(70, 6, tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(60, 6, tr(row[1]), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.RegisterImageOptionsReader("cumulative", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(chart))
	pdf.ImageOptions("cumulative", 10, pdf.GetY(), 190, 0, true, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.Ln(4)

	section(pdf, tr, "Fluxo de caixa (Ano-01..Ano-20)")
	header := []string{"Ano", "Receita", "Custo", "Fluxo", "Acumulado"}
	widths := []float64{26, 41, 41, 41, 41}
	rows := make([][]string, payback.FullYears)
	for i := range rows {
		rows[i] = []string{
			out.Full.Labels[i],
			BRL(out.Full.Revenue[i]),
			BRL(out.Full.Cost[i]),
			BRL(out.Full.CashFlow[i]),
			BRL(out.Full.Cumulative[i]),
		}
	}
	table(pdf, tr, header, widths, rows)

	pdf.AddPage()
	section(pdf, tr, "Gráficos (Ano-04..Ano-20)")
	for i, img := range operational {
		name := fmt.Sprintf("operational-%d", i)
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img))
		pdf.ImageOptions(name, 10, pdf.GetY(), 190, 0, true, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.Ln(2)
	}

	pdf.AddPage()
	section(pdf, tr, "Produção e preços (Ano-04..Ano-20)")
	header = []string{"Ano", "Preço/caixa", "Produção (cx)", "Receita", "Custo"}
	rows = make([][]string, payback.OperationalYears)
	for i := range rows {
		rows[i] = []string{
			payback.YearLabel(i + payback.FirstOperationalYear),
			BRL(out.Series.Price[i]),
			Number(out.Series.Production[i], 0),
			BRL(out.Series.Revenue[i]),
			BRL(out.Series.Cost[i]),
		}
	}
	table(pdf, tr, header, widths, rows)

	section(pdf, tr, "Talhões")
	header = []string{"Talhão", "Área (ha)", "Stand (pl/ha)", "Plantas totais"}
	rows = rows[:0]
	for _, p := range out.Details.Plots {
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.ID),
			Number(p.AreaHa, 2),
			Number(p.StandPerHa, 2),
			Number(p.Plants, 0),
		})
	}
	table(pdf, tr, header, []float64{30, 40, 50, 50}, rows)

	section(pdf, tr, "Custos de implantação (total R$)")
	rows = rows[:0]
	for i, v := range out.Details.Costs.Implantation {
		rows = append(rows, []string{payback.YearLabel(i + 1), BRL(v)})
	}
	table(pdf, tr, []string{"Ano", "Implantação (R$)"}, []float64{30, 60}, rows)

	opex := out.Details.Costs.OpexPerHa
	if len(opex) > 0 {
		pdf.AddPage()
		section(pdf, tr, "OPEX por categoria (R$/ha) - Ano-04..Ano-20")
		header = []string{"Ano"}
		widths = []float64{20}
		colW := 170 / float64(len(opex)+1)
		for _, c := range opex {
			header = append(header, c.Name)
			widths = append(widths, colW)
		}
		header = append(header, "Frete+colheita")
		widths = append(widths, colW)
		rows = make([][]string, payback.OperationalYears)
		for i := range rows {
			row := []string{payback.YearLabel(i + payback.FirstOperationalYear)}
			for _, c := range opex {
				row = append(row, Number(c.PerHectare[i], 2))
			}
			rows[i] = append(row, Number(out.Details.Costs.HarvestFreight[i], 2))
		}
		table(pdf, tr, header, widths, rows)
	}

	if meta.Notes != "" {
		section(pdf, tr, "Notas")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(meta.Notes), "", "L", false)
	}

	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, tr(title))
	pdf.Ln(9)
}

func table(pdf *gofpdf.Fpdf, tr func(string) string, header []string, widths []float64, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 240, 230)
	for i, h := range header {
		pdf.CellFormat(widths[i], 6, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		for i, v := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 5, tr(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)
}
