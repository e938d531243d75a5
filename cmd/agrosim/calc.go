package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"AgroSim/internal/calc/importer"
	"AgroSim/internal/calc/payback"
	"AgroSim/internal/calc/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outputFormat string
	pdfPath      string
	xlsxPath     string
	meta         report.Meta
)

var calcCmd = &cobra.Command{
	Use:   "calc [scenario.json|scenario.yaml|scenario.xlsx]",
	Short: "Compute a scenario and print the payback summary",
	Long: `Reads a scenario document (JSON, YAML or an XLSX import workbook),
computes the 20-year projection and prints it. Use --pdf and --xlsx to also
write the report files.`,
	Args: cobra.ExactArgs(1),
	RunE: runCalc,
}

func init() {
	calcCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	calcCmd.Flags().StringVar(&pdfPath, "pdf", "", "write a PDF report to this path")
	calcCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write an XLSX workbook to this path")
	calcCmd.Flags().StringVar(&meta.Project, "project", "", "project name for the report")
	calcCmd.Flags().StringVar(&meta.Author, "author", "", "author for the report")
	calcCmd.Flags().StringVar(&meta.Title, "title", "", "report title")
}

func runCalc(cmd *cobra.Command, args []string) error {
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", outputFormat)
	}
	doc, err := loadScenario(args[0])
	if err != nil {
		return err
	}
	out, err := payback.Compute(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	logger.Debug("scenario computed", zap.String("file", args[0]), zap.Stringer("payback", out.Summary.Payback))

	if pdfPath != "" {
		if err := writePDF(pdfPath, out); err != nil {
			return err
		}
		logger.Info("pdf written", zap.String("path", pdfPath))
	}
	if xlsxPath != "" {
		if err := writeWorkbook(xlsxPath, out); err != nil {
			return err
		}
		logger.Info("workbook written", zap.String("path", xlsxPath))
	}

	if outputFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return printSummary(cmd.OutOrStdout(), out)
}

func loadScenario(path string) (payback.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return payback.Document{}, err
	}
	defer f.Close()

	var doc payback.Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		doc, err = payback.DecodeJSON(f)
	case ".yaml", ".yml":
		doc, err = payback.DecodeYAML(f)
	case ".xlsx":
		doc, err = importer.Read(f)
	default:
		return payback.Document{}, fmt.Errorf("%s: unsupported scenario format %q", path, ext)
	}
	if err != nil {
		return payback.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func writePDF(path string, out payback.Output) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.PDF(f, out, meta, time.Now()); err != nil {
		f.Close()
		return fmt.Errorf("render pdf: %w", err)
	}
	return f.Close()
}

func writeWorkbook(path string, out payback.Output) error {
	wb, err := report.Workbook(out)
	if err != nil {
		return fmt.Errorf("render workbook: %w", err)
	}
	defer wb.Close()
	return wb.SaveAs(path)
}

func printSummary(w io.Writer, out payback.Output) error {
	s := out.Summary
	fmt.Fprintf(w, "Área total (ha):             %s\n", report.Number(s.TotalAreaHa, 2))
	fmt.Fprintf(w, "Payback (Ano-01..20):        %s\n", s.PaybackFull)
	fmt.Fprintf(w, "Payback (Ano-04..20):        %s\n", s.Payback)
	fmt.Fprintf(w, "FC acumulado final (Ano-20): %s\n\n", report.BRL(s.FinalCumulative))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Ano\tReceita\tCusto\tFluxo\tAcumulado\t")
	for i := 0; i < payback.FullYears; i++ {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", out.Full.Labels[i],
			report.BRL(out.Full.Revenue[i]), report.BRL(out.Full.Cost[i]),
			report.BRL(out.Full.CashFlow[i]), report.BRL(out.Full.Cumulative[i]))
	}
	return tw.Flush()
}
