package app

import (
	"github.com/sirupsen/logrus"

	"github.com/Alphavirusboy/invoice-qc-service/internal/config"
	"github.com/Alphavirusboy/invoice-qc-service/internal/extractor"
	"github.com/Alphavirusboy/invoice-qc-service/internal/llm"
	"github.com/Alphavirusboy/invoice-qc-service/internal/processor"
	"github.com/Alphavirusboy/invoice-qc-service/internal/validator"
)

// App bundles the components built from one configuration
type App struct {
	Config    *config.Config
	Logger    *logrus.Logger
	Pipeline  *processor.Pipeline
	Engine    *validator.Engine
	LLMClient *llm.Client // nil when no API key is configured
}

// New wires the extraction pipeline and validation engine from cfg.
// cfg must have passed Validate.
func New(cfg *config.Config, logger *logrus.Logger) *App {
	a := &App{Config: cfg, Logger: logger}

	currencies := cfg.Validation.Currencies()
	tolerance, _ := cfg.Validation.ToleranceDecimal()

	a.Engine = validator.New(
		validator.WithAllowedCurrencies(currencies),
		validator.WithTolerance(tolerance),
	)

	var llmExtractor *llm.Extractor
	if cfg.LLM.Enabled() {
		var clientOpts []llm.ClientOption
		if cfg.LLM.BaseURL != "" {
			clientOpts = append(clientOpts, llm.WithBaseURL(cfg.LLM.BaseURL))
		}
		if cfg.LLM.Timeout > 0 {
			clientOpts = append(clientOpts, llm.WithTimeout(cfg.LLM.Timeout))
		}
		if cfg.LLM.Model != "" {
			clientOpts = append(clientOpts, llm.WithDefaultModel(cfg.LLM.Model))
		}
		a.LLMClient = llm.NewClient(cfg.LLM.APIKey, clientOpts...)

		var extractorOpts []llm.ExtractorOption
		if cfg.LLM.Model != "" {
			extractorOpts = append(extractorOpts, llm.WithModel(cfg.LLM.Model))
		}
		llmExtractor = llm.NewExtractor(a.LLMClient, extractorOpts...)
	}

	a.Pipeline = processor.NewPipeline(
		processor.WithExtractor(extractor.New(
			extractor.WithCurrencyFallback(cfg.Extraction.CurrencyFallback),
			extractor.WithAllowedCurrencies(currencies),
		)),
		processor.WithLLMExtractor(llmExtractor),
		processor.WithLogger(logger),
		processor.WithWorkers(cfg.Extraction.Workers),
		processor.WithFileTimeout(cfg.Extraction.FileTimeout),
	)
	return a
}
