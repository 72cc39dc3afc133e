package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alphavirusboy/invoice-qc-service/internal/app"
	"github.com/Alphavirusboy/invoice-qc-service/internal/logging"
	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
	"github.com/Alphavirusboy/invoice-qc-service/internal/processor"
	"github.com/Alphavirusboy/invoice-qc-service/internal/report"
)

var (
	outputFile   string
	outputFormat string
	fileTimeout  time.Duration
	workers      int
)

var extractCmd = &cobra.Command{
	Use:   "extract [paths...]",
	Short: "Extract invoices from PDF and text files",
	Long: `Extract structured data from one or more invoice or purchase order files.

Paths may be files, directories (walked recursively) or glob patterns.
Supported formats: .pdf, .txt

Examples:
  invoice-qc extract invoice.pdf
  invoice-qc extract invoices/ -o invoices.json
  invoice-qc extract "scans/*.pdf" -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	extractCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, table)")
	addExtractionFlags(extractCmd)
}

func addExtractionFlags(c *cobra.Command) {
	c.Flags().DurationVar(&fileTimeout, "timeout", 2*time.Minute, "Processing timeout per file")
	c.Flags().IntVar(&workers, "workers", 4, "Files processed concurrently")
}

func runExtract(cmd *cobra.Command, args []string) error {
	results, err := extractPaths(cmd.Context(), newApp(), args)
	if err != nil {
		return err
	}
	invoices := processor.Invoices(results)

	w := cmd.OutOrStdout()
	if outputFile != "" {
		if err := ensureDir(outputFile); err != nil {
			return err
		}
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch outputFormat {
	case "json":
		if err := report.WriteJSON(w, invoices); err != nil {
			return err
		}
	case "table":
		if err := outputTable(w, results); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}

	if outputFile != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d invoices -> %s\n", len(invoices), outputFile)
	}
	return nil
}

// extractPaths collects, reads and extracts every supported file under paths
func extractPaths(ctx context.Context, a *app.App, paths []string) ([]*processor.Result, error) {
	files, err := collectFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to process")
	}
	printVerbose("Found %d files to process\n", len(files))

	docs := make([]processor.Document, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		docs = append(docs, processor.Document{Name: filepath.Base(file), Data: data})
	}

	results, err := a.Pipeline.ExtractAll(ctx, docs)
	if err != nil {
		return nil, err
	}

	for i, r := range results {
		if r.Error != nil {
			logging.LogError(logger, "cli", "extractPaths", "extract file", files[i], r.Error)
			continue
		}
		printVerbose("Processed %s: %s, %d line items, method %s\n",
			files[i], r.Invoice.DocumentType, len(r.Invoice.LineItems), r.Method)
	}
	return results, nil
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		// Check if it's a glob pattern
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			return nil, fmt.Errorf("file not found: %s", arg)
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}
			if !info.IsDir() {
				// explicit files are taken as given
				if match == arg || isSupportedFile(match) {
					files = append(files, match)
				}
				continue
			}
			err = filepath.Walk(match, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isSupportedFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return files, nil
}

func isSupportedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt", ".text":
		return true
	default:
		return false
	}
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func outputTable(w io.Writer, results []*processor.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tTYPE\tNUMBER\tDATE\tSELLER\tGROSS\tCURRENCY\tITEMS\tMETHOD")
	fmt.Fprintln(tw, "----\t----\t------\t----\t------\t-----\t--------\t-----\t------")

	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\t\t\t\n", r.Source, r.Error)
			continue
		}

		inv := r.Invoice
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.Source,
			inv.DocumentType,
			model.Value(inv.InvoiceNumber),
			model.Value(inv.InvoiceDate),
			model.Value(inv.SellerName),
			inv.GrossTotal.Raw(),
			model.Value(inv.Currency),
			len(inv.LineItems),
			r.Method,
		)
	}

	return tw.Flush()
}
