package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Alphavirusboy/invoice-qc-service/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for extracting and validating invoices.

The API provides endpoints for:
  - POST /api/v1/validate-json         - Validate a JSON array of invoices
  - POST /api/v1/extract               - Extract one PDF or text document
  - POST /api/v1/extract-and-validate  - Extract uploaded files and validate them
  - POST /api/v1/info                  - Get file information
  - GET  /health                       - Health check

Examples:
  # Start server on default port
  invoice-qc serve

  # Start on custom port with LLM gap filling
  invoice-qc serve --address :9000 --api-key <key>

  # Start in debug mode
  invoice-qc serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", time.Minute, "HTTP write timeout")
	addExtractionFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a := newApp()
	srv := server.NewServer(a)

	logger.WithField("llm", cfg.LLM.Enabled()).Info("starting server")
	if err := srv.Run(cmd.Context()); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
