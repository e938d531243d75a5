package report

import (
	"fmt"
	"unicode"

	"AgroSim/internal/calc/payback"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Sheet names of the exported workbook.
const (
	SheetSummary      = "Resumo"
	SheetFull         = "Fluxo Ano-01..20"
	SheetOperational  = "Operacao Ano-04..20"
	SheetPlots        = "Talhoes"
	SheetImplantation = "Implantacao"
	SheetOpex         = "OPEX por ha"
)

const moneyFormat = 4 // #,##0.00

// Workbook lays the output out as a spreadsheet, one sheet per table.
func Workbook(out payback.Output) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: moneyFormat})
	if err != nil {
		f.Close()
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f, money: money, bold: bold}
	w.summary(out)
	w.full(out)
	w.operational(out)
	w.plots(out)
	w.implantation(out)
	w.opex(out)
	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// sheetWriter keeps the first error so the layout code reads straight through.
type sheetWriter struct {
	f     *excelize.File
	money int
	bold  int
	err   error
}

func (w *sheetWriter) sheet(name string) {
	if w.err != nil || name == SheetSummary {
		return
	}
	_, w.err = w.f.NewSheet(name)
}

func (w *sheetWriter) row(sheet string, r int, values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, r)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *sheetWriter) header(sheet string, cols ...interface{}) {
	w.row(sheet, 1, cols...)
	if w.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(sheet, "A1", last, w.bold)
	if w.err == nil {
		w.err = w.f.SetColWidth(sheet, "A", colName(len(cols)), 18)
	}
}

func (w *sheetWriter) moneyCols(sheet string, fromCol, toCol, rows int) {
	if w.err != nil || rows == 0 {
		return
	}
	from, err := excelize.CoordinatesToCellName(fromCol, 2)
	if err != nil {
		w.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(toCol, rows+1)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(sheet, from, to, w.money)
}

func colName(n int) string {
	name, err := excelize.ColumnNumberToName(n)
	if err != nil {
		return "A"
	}
	return name
}

func paybackCell(p payback.Payback) interface{} {
	if y, ok := p.Year(); ok {
		return y
	}
	return p.String()
}

func (w *sheetWriter) summary(out payback.Output) {
	s := out.Summary
	w.header(SheetSummary, "Indicador", "Valor")
	w.row(SheetSummary, 2, "Área total (ha)", s.TotalAreaHa)
	w.row(SheetSummary, 3, "Payback (Ano-01..20)", paybackCell(s.PaybackFull))
	w.row(SheetSummary, 4, "Payback (Ano-04..20)", paybackCell(s.Payback))
	w.row(SheetSummary, 5, "FC acumulado Ano-20 (Ano-04..20)", s.FinalCumulative)
	w.row(SheetSummary, 6, "FC acumulado Ano-20 (Ano-01..20)", out.Full.Cumulative[payback.FullYears-1])
	if w.err == nil {
		w.err = w.f.SetCellStyle(SheetSummary, "B5", "B6", w.money)
	}
}

func (w *sheetWriter) full(out payback.Output) {
	w.sheet(SheetFull)
	w.header(SheetFull, "Ano", "Receita", "Custo", "Fluxo de caixa", "Acumulado")
	for i := 0; i < payback.FullYears; i++ {
		w.row(SheetFull, i+2, out.Full.Labels[i], out.Full.Revenue[i], out.Full.Cost[i],
			out.Full.CashFlow[i], out.Full.Cumulative[i])
	}
	w.moneyCols(SheetFull, 2, 5, payback.FullYears)
}

func (w *sheetWriter) operational(out payback.Output) {
	s := out.Series
	w.sheet(SheetOperational)
	w.header(SheetOperational, "Ano", "Preço por caixa", "Produção (caixas)", "Receita", "Custo",
		"Fluxo de caixa", "Acumulado")
	for i := 0; i < payback.OperationalYears; i++ {
		w.row(SheetOperational, i+2, s.Labels[i], s.Price[i], s.Production[i], s.Revenue[i], s.Cost[i],
			s.CashFlow[i], s.Cumulative[i])
	}
	w.moneyCols(SheetOperational, 2, 7, payback.OperationalYears)
}

func (w *sheetWriter) plots(out payback.Output) {
	w.sheet(SheetPlots)
	cols := []interface{}{"Talhão", "Área (ha)", "Stand (pl/ha)", "Plantas totais"}
	for i := 0; i < payback.OperationalYears; i++ {
		cols = append(cols, payback.YearLabel(i+payback.FirstOperationalYear))
	}
	w.header(SheetPlots, cols...)
	for n, p := range out.Details.Plots {
		row := []interface{}{p.ID, p.AreaHa, p.StandPerHa, p.Plants}
		for _, v := range p.Production {
			row = append(row, v)
		}
		w.row(SheetPlots, n+2, row...)
	}
}

func (w *sheetWriter) implantation(out payback.Output) {
	w.sheet(SheetImplantation)
	w.header(SheetImplantation, "Ano", "Implantação (R$)")
	for i, v := range out.Details.Costs.Implantation {
		w.row(SheetImplantation, i+2, payback.YearLabel(i+1), v)
	}
	w.moneyCols(SheetImplantation, 2, 2, payback.ImplantationYears)
}

func (w *sheetWriter) opex(out payback.Output) {
	c := out.Details.Costs
	w.sheet(SheetOpex)
	cols := []interface{}{"Ano"}
	for _, cat := range c.OpexPerHa {
		cols = append(cols, cat.Name)
	}
	cols = append(cols, "Frete+colheita")
	w.header(SheetOpex, cols...)
	for i := 0; i < payback.OperationalYears; i++ {
		row := []interface{}{payback.YearLabel(i + payback.FirstOperationalYear)}
		for _, cat := range c.OpexPerHa {
			row = append(row, cat.PerHectare[i])
		}
		w.row(SheetOpex, i+2, append(row, c.HarvestFreight[i])...)
	}
	w.moneyCols(SheetOpex, 2, len(cols), payback.OperationalYears)
}

// WorkbookName is the download name for a workbook.
func WorkbookName(project string) string {
	if project == "" {
		return "payback.xlsx"
	}
	return fmt.Sprintf("payback-%s.xlsx", slug(project))
}

// foldAccents turns "São João" into "Sao Joao".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

func slug(s string) string {
	s = foldAccents(s)
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+'a'-'A')
		case len(out) > 0 && out[len(out)-1] != '-':
			out = append(out, '-')
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return "cenario"
	}
	return string(out)
}
