package invoicelib

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"github.com/Alphavirusboy/invoice-qc-service/internal/extractor"
	"github.com/Alphavirusboy/invoice-qc-service/internal/llm"
	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
	"github.com/Alphavirusboy/invoice-qc-service/internal/processor"
	"github.com/Alphavirusboy/invoice-qc-service/internal/validator"
)

// PipelineOptions configures a Processor
type PipelineOptions struct {
	// Extraction
	CurrencyFallback string // Used when a document names no currency (default: EUR)
	Workers          int    // Documents processed concurrently by ProcessBatch

	// Validation
	AllowedCurrencies []string
	Tolerance         decimal.Decimal // Absolute difference allowed between amounts

	// LLM gap filling, used only when EnableLLM is set and LLMAPIKey is not empty
	EnableLLM  bool
	LLMAPIKey  string // API key (env: LLM_API_KEY)
	LLMBaseURL string // Base URL (env: LLM_BASE_URL)
	LLMModel   string // Gap filling model (env: LLM_MODEL)
}

// DefaultPipelineOptions returns default pipeline options
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		CurrencyFallback:  extractor.DefaultCurrencyFallback,
		Workers:           processor.DefaultWorkers,
		AllowedCurrencies: append([]string(nil), model.DefaultCurrencies...),
		Tolerance:         decimal.RequireFromString("0.02"),
		LLMBaseURL:        llm.DefaultBaseURL,
		LLMModel:          llm.ModelGPT4oMini,
	}
}

// Document is one named input of a batch
type Document = processor.Document

// ExtractionResult represents extraction result with metadata
type ExtractionResult struct {
	Source   string
	Invoice  *Invoice
	Method   string
	Warnings []string
	Error    error
}

// Processor extracts invoices from documents and validates them
type Processor struct {
	pipeline *processor.Pipeline
	engine   *validator.Engine
}

// NewProcessor creates a new invoice processor with the given options
func NewProcessor(opts PipelineOptions) *Processor {
	var llmExtractor *llm.Extractor
	if opts.EnableLLM && opts.LLMAPIKey != "" {
		var clientOpts []llm.ClientOption
		if opts.LLMBaseURL != "" {
			clientOpts = append(clientOpts, llm.WithBaseURL(opts.LLMBaseURL))
		}
		client := llm.NewClient(opts.LLMAPIKey, clientOpts...)

		var extractorOpts []llm.ExtractorOption
		if opts.LLMModel != "" {
			extractorOpts = append(extractorOpts, llm.WithModel(opts.LLMModel))
		}
		llmExtractor = llm.NewExtractor(client, extractorOpts...)
	}

	return &Processor{
		pipeline: processor.NewPipeline(
			processor.WithExtractor(extractor.New(
				extractor.WithCurrencyFallback(opts.CurrencyFallback),
				extractor.WithAllowedCurrencies(opts.AllowedCurrencies),
			)),
			processor.WithLLMExtractor(llmExtractor),
			processor.WithWorkers(opts.Workers),
		),
		engine: validator.New(
			validator.WithAllowedCurrencies(opts.AllowedCurrencies),
			validator.WithTolerance(opts.Tolerance),
		),
	}
}

// NewDefaultProcessor creates a processor with default options
func NewDefaultProcessor() *Processor {
	return NewProcessor(DefaultPipelineOptions())
}

// Process reads a PDF or text document and extracts one invoice from it
func (p *Processor) Process(ctx context.Context, r io.Reader, source string) (*ExtractionResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewExtractionError(source, "read", "failed to read input", err)
	}

	result := toExtractionResult(p.pipeline.Process(ctx, data, source))
	if result.Error != nil {
		return nil, result.Error
	}
	return result, nil
}

// ProcessText extracts one invoice from already materialized text
func (p *Processor) ProcessText(ctx context.Context, text, source string) *ExtractionResult {
	return toExtractionResult(p.pipeline.ProcessText(ctx, text, source))
}

// ProcessBatch processes documents concurrently. Results keep the input
// order and a failed document carries its own Error.
func (p *Processor) ProcessBatch(ctx context.Context, docs []Document) ([]*ExtractionResult, error) {
	results, err := p.pipeline.ExtractAll(ctx, docs)
	if err != nil {
		return nil, err
	}

	out := make([]*ExtractionResult, len(results))
	for i, r := range results {
		out[i] = toExtractionResult(r)
	}
	return out, nil
}

// Validate validates a batch with the processor's currencies and tolerance
func (p *Processor) Validate(invoices []*Invoice) ValidationResponse {
	return p.engine.Validate(invoices)
}

// ExtractAndValidate extracts every document and validates the successful ones as one batch
func (p *Processor) ExtractAndValidate(ctx context.Context, docs []Document) (*ExtractAndValidateResponse, error) {
	results, err := p.ProcessBatch(ctx, docs)
	if err != nil {
		return nil, err
	}

	invoices := make([]*Invoice, 0, len(results))
	for _, r := range results {
		if r.Invoice != nil {
			invoices = append(invoices, r.Invoice)
		}
	}
	return &ExtractAndValidateResponse{
		Invoices:   invoices,
		Validation: p.Validate(invoices),
	}, nil
}

func toExtractionResult(r *processor.Result) *ExtractionResult {
	return &ExtractionResult{
		Source:   r.Source,
		Invoice:  r.Invoice,
		Method:   string(r.Method),
		Warnings: r.Warnings,
		Error:    r.Error,
	}
}
