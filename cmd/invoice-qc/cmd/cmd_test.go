package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alphavirusboy/invoice-qc-service/internal/llm"
	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
)

const validInvoice = `Invoice Number: INV-7
Invoice Date: 2024-03-01
Seller: ACME Ltd
Buyer: Globex
Subtotal: 100.00
Tax: 20.00
Total: £120.00`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--env-file", ""))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "invoices.json", `[{"invoice_number": "A1", "invoice_date": "2024-01-10",
		"seller_name": "S", "buyer_name": "B", "currency": "EUR",
		"net_total": 100, "tax_amount": 19, "gross_total": 119}]`)
	reportPath := filepath.Join(dir, "out", "report.json")
	xlsxPath := filepath.Join(dir, "out", "report.xlsx")

	out, err := run(t, "validate", input, "--report", reportPath, "--xlsx", xlsxPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 1")
	assert.Contains(t, out, "Valid: 1  Invalid: 0")
	assert.FileExists(t, reportPath)
	assert.FileExists(t, xlsxPath)
}

func TestValidateCommand_InvalidExitsNonZero(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "invoices.json", `[{"invoice_number": "A1"}]`)

	out, err := run(t, "validate", input, "--report", "", "--xlsx", "")
	require.Error(t, err)
	assert.Contains(t, out, "Top errors:")
	assert.Contains(t, out, "- missing_field: seller_name: 1")
}

func TestValidateCommand_SchemaRejection(t *testing.T) {
	input := writeFile(t, t.TempDir(), "invoices.json", `{"invoice_number": "A1"}`)

	_, err := run(t, "validate", input, "--report", "", "--xlsx", "")
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestExtractAndFullRun(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.Mkdir(docs, 0o755))
	writeFile(t, docs, "inv7.txt", validInvoice)
	writeFile(t, docs, "ignored.csv", "a,b")

	invoicesPath := filepath.Join(dir, "invoices.json")
	out, err := run(t, "extract", docs, "-o", invoicesPath, "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "Extracted 1 invoices")

	data, err := os.ReadFile(invoicesPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"invoice_number": "INV-7"`)

	reportPath := filepath.Join(dir, "report.json")
	outputFile = ""
	out, err = run(t, "full-run", docs, "--report", reportPath, "--xlsx", "", "-o", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to "+reportPath)
	assert.Contains(t, out, "Valid: 1  Invalid: 0")
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf", "%PDF")
	writeFile(t, dir, "b.txt", "text")
	writeFile(t, dir, "c.png", "png")
	explicit := writeFile(t, dir, "d.dat", "data")

	files, err := collectFiles([]string{dir})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = collectFiles([]string{explicit})
	require.NoError(t, err)
	assert.Equal(t, []string{explicit}, files)

	files, err = collectFiles([]string{filepath.Join(dir, "*.txt")})
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = collectFiles([]string{filepath.Join(dir, "missing.pdf")})
	assert.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, model.ValidationSummary{
		TotalInvoices:   3,
		ValidInvoices:   1,
		InvalidInvoices: 2,
		ErrorCounts:     map[string]int{"b": 1, "a": 1, "c": 2},
	})

	assert.Equal(t, "Total: 3\nValid: 1  Invalid: 2\nTop errors:\n- c: 2\n- a: 1\n- b: 1\n", buf.String())
}

func TestPrintModels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printModels(&buf, []llm.Model{
		{ID: "openai/gpt-4o-mini", Created: 1700000000},
		{ID: "claude-3-haiku", OwnedBy: "anthropic"},
	}))

	out := buf.String()
	assert.Contains(t, out, "Available Models (2):")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("claude-3-haiku")), bytes.Index(buf.Bytes(), []byte("openai/gpt-4o-mini")))
	assert.Contains(t, out, "2023-11-14")
}

func TestInferProvider(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{"anthropic/claude-3.5-sonnet", "anthropic"},
		{"gpt-4o", "openai"},
		{"gemini-pro", "google"},
		{"Meta-Llama-3-8B", "meta"},
		{"mixtral-8x7b", "mistral"},
		{"unknown-model", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.expected, inferProvider(tt.id))
		})
	}
}

func TestGetPreview(t *testing.T) {
	assert.Equal(t, "a b c", getPreview("  a\n\tb   c ", 10))
	assert.Equal(t, "abc...", getPreview("abcdef", 3))
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "Not set", maskKey(""))
	assert.Equal(t, "Set", maskKey("short"))
	assert.Equal(t, "Set (sk-or-v1...)", maskKey("sk-or-v1-abcdef"))
}
