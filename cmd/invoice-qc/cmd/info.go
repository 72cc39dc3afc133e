package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alphavirusboy/invoice-qc-service/internal/app"
	"github.com/Alphavirusboy/invoice-qc-service/internal/extractor"
	"github.com/Alphavirusboy/invoice-qc-service/internal/processor"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about invoice files",
	Long: `Display information about invoice files without full processing.

Shows:
  - Detected file format (PDF, text, image)
  - Detected document type (invoice or purchase order)
  - File metadata and a short text preview

Examples:
  invoice-qc info invoice.pdf
  invoice-qc info "scans/*.pdf"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	a := newApp()
	w := cmd.OutOrStdout()
	for _, file := range files {
		printFileInfo(cmd, a, w, file)
		fmt.Fprintln(w)
	}

	return nil
}

func printFileInfo(cmd *cobra.Command, a *app.App, w io.Writer, filePath string) {
	fmt.Fprintf(w, "File: %s\n", filePath)

	info, err := os.Stat(filePath)
	if err != nil {
		fmt.Fprintf(w, "  Error: %v\n", err)
		return
	}

	fmt.Fprintf(w, "  Size: %d bytes\n", info.Size())
	fmt.Fprintf(w, "  Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))

	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(w, "  Error reading file: %v\n", err)
		return
	}

	text, format, err := a.Pipeline.Text(cmd.Context(), data, filePath)
	fmt.Fprintf(w, "  Format: %s\n", formatName(format))
	if err != nil {
		if format == processor.FormatPDF {
			fmt.Fprintf(w, "  Error: %v\n", err)
		}
		return
	}

	fmt.Fprintf(w, "  Document type: %s\n", extractor.Classify(text))
	if preview := getPreview(text, 200); preview != "" {
		fmt.Fprintf(w, "  Preview: %s\n", preview)
	}
}

func formatName(f processor.Format) string {
	switch f {
	case processor.FormatPDF:
		return "PDF"
	case processor.FormatText:
		return "Text"
	case processor.FormatImage:
		return "Image (no text layer)"
	default:
		return "Unknown"
	}
}

func getPreview(content string, maxLen int) string {
	content = strings.Join(strings.Fields(content), " ")

	if runes := []rune(content); len(runes) > maxLen {
		content = string(runes[:maxLen]) + "..."
	}

	return content
}
