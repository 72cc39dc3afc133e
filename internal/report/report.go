package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
)

const (
	SummarySheet = "Summary"
	ResultsSheet = "Results"
)

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// SaveJSON writes v as indented JSON to path
func SaveJSON(path string, v any) error {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, v); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// XLSX renders a validation response as a workbook with a summary sheet
// and one row per invoice result.
func XLSX(resp model.ValidationResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// the default sheet becomes the summary
	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(ResultsSheet); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	if err := writeSummary(f, resp.Summary); err != nil {
		return nil, err
	}
	if err := writeResults(f, resp.Results); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveXLSX writes the workbook for resp to path
func SaveXLSX(path string, resp model.ValidationResponse) error {
	data, err := XLSX(resp)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeSummary(f *excelize.File, s model.ValidationSummary) error {
	rows := [][]any{
		{"Metric", "Value"},
		{"Total invoices", s.TotalInvoices},
		{"Valid invoices", s.ValidInvoices},
		{"Invalid invoices", s.InvalidInvoices},
		{},
		{"Error", "Count"},
	}
	for _, code := range sortedCodes(s.ErrorCounts) {
		rows = append(rows, []any{code, s.ErrorCounts[code]})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("summary row %d: %w", i+1, err)
		}
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 40)
	_ = f.SetColWidth(SummarySheet, "B", "B", 12)
	return nil
}

func writeResults(f *excelize.File, results []model.InvoiceValidationResult) error {
	headers := []any{"Invoice", "Valid", "Errors", "Warnings"}
	if err := f.SetSheetRow(ResultsSheet, "A1", &headers); err != nil {
		return err
	}

	for i, r := range results {
		row := []any{r.InvoiceID, r.IsValid, strings.Join(r.Errors, "; "), strings.Join(r.Warnings, "; ")}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ResultsSheet, cell, &row); err != nil {
			return fmt.Errorf("result row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(ResultsSheet, "A", "A", 24)
	_ = f.SetColWidth(ResultsSheet, "B", "B", 8)
	_ = f.SetColWidth(ResultsSheet, "C", "D", 60)
	return nil
}

// sortedCodes orders error codes by descending count, then by name
func sortedCodes(counts map[string]int) []string {
	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if counts[codes[i]] != counts[codes[j]] {
			return counts[codes[i]] > counts[codes[j]]
		}
		return codes[i] < codes[j]
	})
	return codes
}
