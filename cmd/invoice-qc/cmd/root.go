package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Alphavirusboy/invoice-qc-service/internal/app"
	"github.com/Alphavirusboy/invoice-qc-service/internal/config"
	"github.com/Alphavirusboy/invoice-qc-service/internal/logging"
)

var (
	version = "1.0.0"

	// Global flags
	verbose    bool
	configFile string
	envFile    string
	apiKey     string
	llmBaseURL string
	llmModel   string
	currencies string
	tolerance  string
	logFormat  string

	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "invoice-qc",
	Short: "Extract and quality-check invoices and purchase orders",
	Long: `Invoice QC extracts structured data from invoice and purchase order PDFs
or text files and validates the results.

Checks performed:
  - Required fields present (number, date, seller, buyer)
  - Date formats and due date ordering
  - Currency present and allowed
  - Amounts numeric and non-negative, net + tax = gross
  - Line item totals match the net total
  - Duplicate invoices within a batch

Examples:
  # Extract a folder of PDFs
  invoice-qc extract invoices/ -o invoices.json

  # Validate extracted invoices and write reports
  invoice-qc validate invoices.json --report report.json --xlsx report.xlsx

  # Extract and validate in one step
  invoice-qc full-run invoices/ --report report.json`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command; SIGINT and SIGTERM cancel its context
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.StringVarP(&configFile, "config", "c", "", "YAML config file")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file loaded when present")
	flags.StringVar(&apiKey, "api-key", "", "API key for LLM provider (env: LLM_API_KEY)")
	flags.StringVar(&llmBaseURL, "llm-base-url", "", "LLM API base URL (env: LLM_BASE_URL)")
	flags.StringVar(&llmModel, "llm-model", "", "LLM model for gap filling (env: LLM_MODEL)")
	flags.StringVar(&currencies, "currencies", "", "Comma separated allowed currencies (env: INVOICE_QC_CURRENCIES)")
	flags.StringVar(&tolerance, "tolerance", "", "Amount comparison tolerance (env: INVOICE_QC_TOLERANCE)")
	flags.StringVar(&logFormat, "log-format", "", "Log format, text or json (env: INVOICE_QC_LOG_FORMAT)")
}

// loadConfig resolves configuration, then lets explicitly set flags win
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configFile, envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api-key") {
		loaded.LLM.APIKey = apiKey
	}
	if flags.Changed("llm-base-url") {
		loaded.LLM.BaseURL = llmBaseURL
	}
	if flags.Changed("llm-model") {
		loaded.LLM.Model = llmModel
	}
	if flags.Changed("currencies") {
		loaded.Validation.AllowedCurrencies = config.SplitList(currencies)
	}
	if flags.Changed("tolerance") {
		loaded.Validation.Tolerance = tolerance
	}
	if flags.Changed("log-format") {
		loaded.Log.Format = logFormat
	}
	if verbose {
		loaded.Log.Level = "debug"
	}
	applyCommandFlags(cmd, loaded)

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = loaded
	logger = logging.New(cfg.Log.Level, cfg.Log.Format)
	return nil
}

func newApp() *app.App {
	return app.New(cfg, logger)
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(rootCmd.ErrOrStderr(), format, args...)
	}
}

// applyCommandFlags copies subcommand flags the user set into c
func applyCommandFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("timeout") {
		c.Extraction.FileTimeout = fileTimeout
	}
	if flags.Changed("workers") {
		c.Extraction.Workers = workers
	}
	if flags.Changed("address") {
		c.Server.Addr = serverAddr
	}
	if flags.Changed("debug") {
		c.Server.Debug = serverDebug
	}
	if flags.Changed("read-timeout") {
		c.Server.ReadTimeout = readTimeout
	}
	if flags.Changed("write-timeout") {
		c.Server.WriteTimeout = writeTimeout
	}
}
