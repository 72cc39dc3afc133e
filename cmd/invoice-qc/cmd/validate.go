package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
	"github.com/Alphavirusboy/invoice-qc-service/internal/report"
	"github.com/Alphavirusboy/invoice-qc-service/internal/schema"
)

var (
	reportFile string
	xlsxFile   string
)

var validateCmd = &cobra.Command{
	Use:   "validate <invoices.json>",
	Short: "Validate extracted invoices",
	Long: `Validate a JSON array of invoices for completeness and correctness.

The command exits with a non-zero status when any invoice is invalid.

Examples:
  invoice-qc validate invoices.json
  invoice-qc validate invoices.json --report report.json --xlsx report.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&reportFile, "report", "", "Write the JSON validation report to this file")
	validateCmd.Flags().StringVar(&xlsxFile, "xlsx", "", "Write an XLSX validation report to this file")
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	invoices, err := schema.DecodeInvoices(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	resp := newApp().Engine.Validate(invoices)
	return finishValidation(cmd.OutOrStdout(), resp, reportFile, xlsxFile)
}

// finishValidation writes the requested reports, prints the summary and
// fails when any invoice is invalid
func finishValidation(w io.Writer, resp model.ValidationResponse, jsonPath, xlsxPath string) error {
	if jsonPath != "" {
		if err := ensureDir(jsonPath); err != nil {
			return err
		}
		if err := report.SaveJSON(jsonPath, resp); err != nil {
			return err
		}
		fmt.Fprintf(w, "Report written to %s\n", jsonPath)
	}
	if xlsxPath != "" {
		if err := ensureDir(xlsxPath); err != nil {
			return err
		}
		if err := report.SaveXLSX(xlsxPath, resp); err != nil {
			return err
		}
		fmt.Fprintf(w, "Workbook written to %s\n", xlsxPath)
	}

	if verbose {
		printResults(w, resp.Results)
	}
	printSummary(w, resp.Summary)

	if resp.Summary.InvalidInvoices > 0 {
		return fmt.Errorf("%d of %d invoices failed validation", resp.Summary.InvalidInvoices, resp.Summary.TotalInvoices)
	}
	return nil
}

func printResults(w io.Writer, results []model.InvoiceValidationResult) {
	for _, r := range results {
		if r.IsValid {
			fmt.Fprintf(w, "✓ %s: VALID\n", r.InvoiceID)
		} else {
			fmt.Fprintf(w, "✗ %s: INVALID\n", r.InvoiceID)
			for _, e := range r.Errors {
				fmt.Fprintf(w, "  - %s\n", e)
			}
		}
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "  ⚠ %s\n", warning)
		}
	}
}

func printSummary(w io.Writer, s model.ValidationSummary) {
	fmt.Fprintf(w, "Total: %d\n", s.TotalInvoices)
	fmt.Fprintf(w, "Valid: %d  Invalid: %d\n", s.ValidInvoices, s.InvalidInvoices)
	if len(s.ErrorCounts) == 0 {
		return
	}

	codes := make([]string, 0, len(s.ErrorCounts))
	for code := range s.ErrorCounts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if s.ErrorCounts[codes[i]] != s.ErrorCounts[codes[j]] {
			return s.ErrorCounts[codes[i]] > s.ErrorCounts[codes[j]]
		}
		return codes[i] < codes[j]
	})

	fmt.Fprintln(w, "Top errors:")
	for _, code := range codes {
		fmt.Fprintf(w, "- %s: %d\n", code, s.ErrorCounts[code])
	}
}
