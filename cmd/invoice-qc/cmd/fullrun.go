package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Alphavirusboy/invoice-qc-service/internal/processor"
	"github.com/Alphavirusboy/invoice-qc-service/internal/report"
)

var fullRunCmd = &cobra.Command{
	Use:   "full-run [paths...]",
	Short: "Extract files and validate the results",
	Long: `Extract every supported file under the given paths, validate the
extracted invoices as one batch and write the validation report.

Examples:
  invoice-qc full-run invoices/ --report report.json
  invoice-qc full-run invoices/ --report report.json --xlsx report.xlsx`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFullRun,
}

func init() {
	rootCmd.AddCommand(fullRunCmd)

	fullRunCmd.Flags().StringVar(&reportFile, "report", "", "Write the JSON validation report to this file")
	fullRunCmd.Flags().StringVar(&xlsxFile, "xlsx", "", "Write an XLSX validation report to this file")
	fullRunCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Also write the extracted invoices to this file")
	_ = fullRunCmd.MarkFlagRequired("report")
	addExtractionFlags(fullRunCmd)
}

func runFullRun(cmd *cobra.Command, args []string) error {
	a := newApp()
	results, err := extractPaths(cmd.Context(), a, args)
	if err != nil {
		return err
	}
	invoices := processor.Invoices(results)

	if outputFile != "" {
		if err := ensureDir(outputFile); err != nil {
			return err
		}
		if err := report.SaveJSON(outputFile, invoices); err != nil {
			return err
		}
	}

	resp := a.Engine.Validate(invoices)
	return finishValidation(cmd.OutOrStdout(), resp, reportFile, xlsxFile)
}
