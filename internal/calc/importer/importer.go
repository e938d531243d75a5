// Package importer reads payback scenarios from XLSX workbooks.
//
// The workbook has one sheet per section of the scenario document. Row 1 of
// every sheet is a header, except in precos, which is keyed by column A:
//
//	talhoes      talhao, area_ha, rua_m, plantas_m, 10 base yields, 7 deflators
//	precos       preco_base | value ; fatores | 16 factors
//	implantacao  nome, valor_unitario, qtd ano 1, qtd ano 2, qtd ano 3
//	opex         nome, base_ano4_por_ha, 16 multipliers
//	colheita     ano, colheita_mo_unit, colheita_frete_unit (17 rows)
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"AgroSim/internal/calc/payback"

	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetPlots        = "talhoes"
	SheetPrices       = "precos"
	SheetImplantation = "implantacao"
	SheetOpex         = "opex"
	SheetHarvest      = "colheita"
)

const (
	plotYieldCol    = 4
	plotDeflatorCol = plotYieldCol + payback.BaseYieldYears
)

// Read opens an XLSX stream and converts it to a scenario document.
func Read(r io.Reader) (payback.Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return payback.Document{}, fmt.Errorf("%w: not an xlsx workbook: %v", payback.ErrInvalidInput, err)
	}
	defer f.Close()
	return Document(f)
}

// Document converts an open workbook. Blank cells are treated as missing
// values, so the scenario constructor reports them by field.
func Document(f *excelize.File) (payback.Document, error) {
	var doc payback.Document

	rows, err := body(f, SheetPlots)
	if err != nil {
		return payback.Document{}, err
	}
	doc.Plots = make([]payback.PlotDoc, 0, len(rows))
	for _, row := range rows {
		doc.Plots = append(doc.Plots, payback.PlotDoc{
			ID:        cell(row, 0),
			AreaHa:    cell(row, 1),
			RowM:      cell(row, 2),
			PlantM:    cell(row, 3),
			BaseYield: cells(row, plotYieldCol, payback.BaseYieldYears),
			Deflators: cells(row, plotDeflatorCol, payback.DeflatorYears),
		})
	}

	prices, err := readPrices(f)
	if err != nil {
		return payback.Document{}, err
	}
	doc.Prices = prices

	costs := &payback.CostsDoc{}
	if rows, err = body(f, SheetImplantation); err != nil {
		return payback.Document{}, err
	}
	costs.Implantation = make([]payback.ImplantationDoc, 0, len(rows))
	for _, row := range rows {
		item := payback.ImplantationDoc{Name: text(row, 0), UnitValue: cell(row, 1)}
		if !blank(row, 2, payback.ImplantationYears) {
			item.Quantities = cells(row, 2, payback.ImplantationYears)
		}
		costs.Implantation = append(costs.Implantation, item)
	}

	if rows, err = body(f, SheetOpex); err != nil {
		return payback.Document{}, err
	}
	costs.Opex = make([]payback.OpexDoc, 0, len(rows))
	for _, row := range rows {
		od := payback.OpexDoc{
			BasePerHa:   cell(row, 1),
			Multipliers: cells(row, 2, payback.GrowthFactors),
		}
		if name := text(row, 0); name != "" {
			od.Name = &name
		}
		costs.Opex = append(costs.Opex, od)
	}

	if rows, err = body(f, SheetHarvest); err != nil {
		return payback.Document{}, err
	}
	costs.LaborUnit = make([]payback.Number, 0, len(rows))
	costs.FreightUnit = make([]payback.Number, 0, len(rows))
	for _, row := range rows {
		costs.LaborUnit = append(costs.LaborUnit, cell(row, 1))
		costs.FreightUnit = append(costs.FreightUnit, cell(row, 2))
	}
	doc.Costs = costs

	return doc, nil
}

func readPrices(f *excelize.File) (*payback.PricesDoc, error) {
	rows, err := sheetRows(f, SheetPrices)
	if err != nil {
		return nil, err
	}
	prices := &payback.PricesDoc{}
	for _, row := range rows {
		switch strings.ToLower(text(row, 0)) {
		case "preco_base":
			prices.Base = cell(row, 1)
		case "fatores":
			if len(row) > 1 {
				prices.Factors = cells(row, 1, len(row)-1)
			}
		}
	}
	return prices, nil
}

func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	var missing excelize.ErrSheetNotExist
	if errors.As(err, &missing) {
		return nil, fmt.Errorf("%w: sheet %q is missing", payback.ErrInvalidInput, sheet)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", payback.ErrInvalidInput, sheet, err)
	}
	return rows, nil
}

// body returns the rows below the header, skipping blank ones.
func body(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := sheetRows(f, sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		rows = rows[1:]
	}
	out := rows[:0]
	for _, row := range rows {
		if !blank(row, 0, len(row)) {
			out = append(out, row)
		}
	}
	return out, nil
}

func text(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cell(row []string, i int) payback.Number {
	s := text(row, i)
	if s == "" {
		return payback.Number{}
	}
	return payback.NumberFromString(s)
}

func cells(row []string, from, n int) []payback.Number {
	out := make([]payback.Number, n)
	for i := range out {
		out[i] = cell(row, from+i)
	}
	return out
}

func blank(row []string, from, n int) bool {
	for i := from; i < from+n; i++ {
		if text(row, i) != "" {
			return false
		}
	}
	return true
}
