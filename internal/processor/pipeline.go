package processor

import (
	"bytes"
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Alphavirusboy/invoice-qc-service/internal/extractor"
	"github.com/Alphavirusboy/invoice-qc-service/internal/llm"
	"github.com/Alphavirusboy/invoice-qc-service/internal/logging"
	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
	"github.com/Alphavirusboy/invoice-qc-service/internal/parser/pdf"
)

// Format is the detected input format
type Format int

const (
	FormatUnknown Format = iota
	FormatPDF
	FormatText
	FormatImage
)

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatText:
		return "text"
	case FormatImage:
		return "image"
	default:
		return "unknown"
	}
}

// ExtractionMethod records how an invoice was produced
type ExtractionMethod string

const (
	MethodHeuristic ExtractionMethod = "heuristic"
	MethodLLMAssist ExtractionMethod = "heuristic+llm"
)

// DefaultWorkers bounds ExtractAll when no limit is configured
const DefaultWorkers = 4

// Result is the outcome of processing one document
type Result struct {
	Source   string
	Format   Format
	Invoice  *model.Invoice
	Method   ExtractionMethod
	Warnings []string
	Error    error
}

// Document is one named input of a batch
type Document struct {
	Name string
	Data []byte
}

// PageTextSource turns a binary document into newline-joined page text
type PageTextSource interface {
	ExtractText(ctx context.Context, data []byte, source string) (string, error)
}

// Pipeline orchestrates text sourcing, heuristic extraction and optional LLM gap filling
type Pipeline struct {
	extractor *extractor.Extractor
	pdf       PageTextSource
	llm       *llm.Extractor
	logger    logrus.FieldLogger
	workers   int
	timeout   time.Duration
}

// PipelineOption configures the pipeline
type PipelineOption func(*Pipeline)

// WithExtractor sets the heuristic extractor
func WithExtractor(e *extractor.Extractor) PipelineOption {
	return func(p *Pipeline) {
		p.extractor = e
	}
}

// WithPDFSource replaces the PDF text source
func WithPDFSource(src PageTextSource) PipelineOption {
	return func(p *Pipeline) {
		p.pdf = src
	}
}

// WithLLMExtractor enables gap filling; nil disables it
func WithLLMExtractor(e *llm.Extractor) PipelineOption {
	return func(p *Pipeline) {
		p.llm = e
	}
}

// WithLogger sets the logger
func WithLogger(logger logrus.FieldLogger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithWorkers sets how many documents ExtractAll processes at once
func WithWorkers(n int) PipelineOption {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// WithFileTimeout bounds each document of ExtractAll; zero means no bound
func WithFileTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.timeout = d
	}
}

// NewPipeline creates a new processing pipeline
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		extractor: extractor.New(),
		pdf:       pdf.NewExtractor(),
		logger:    logging.Discard(),
		workers:   DefaultWorkers,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DetectFormat detects the input format from content
func DetectFormat(data []byte) Format {
	if len(data) < 4 {
		if len(data) > 0 && utf8.Valid(data) {
			return FormatText
		}
		return FormatUnknown
	}

	if bytes.HasPrefix(data, []byte("%PDF")) {
		return FormatPDF
	}

	// PNG, JPEG, TIFF
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return FormatImage
	}
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return FormatImage
	}
	if (data[0] == 0x49 && data[1] == 0x49 && data[2] == 0x2A && data[3] == 0x00) ||
		(data[0] == 0x4D && data[1] == 0x4D && data[2] == 0x00 && data[3] == 0x2A) {
		return FormatImage
	}

	if utf8.Valid(data) && !bytes.ContainsRune(data, 0) {
		return FormatText
	}
	return FormatUnknown
}

// Process detects the format and extracts one document
func (p *Pipeline) Process(ctx context.Context, data []byte, source string) *Result {
	switch format := DetectFormat(data); format {
	case FormatPDF:
		return p.ProcessPDF(ctx, data, source)
	case FormatText:
		return p.ProcessText(ctx, string(data), source)
	case FormatImage:
		return &Result{
			Source: source,
			Format: format,
			Error:  model.NewExtractionError(source, format.String(), "images carry no text layer and OCR is not performed", nil),
		}
	default:
		return &Result{
			Source: source,
			Format: format,
			Error:  model.NewExtractionError(source, format.String(), "unsupported file format", nil),
		}
	}
}

// Text returns the plain text of a text or PDF document without extracting fields
func (p *Pipeline) Text(ctx context.Context, data []byte, source string) (string, Format, error) {
	switch format := DetectFormat(data); format {
	case FormatPDF:
		text, err := p.pdf.ExtractText(ctx, data, source)
		return text, format, err
	case FormatText:
		return string(data), format, nil
	default:
		return "", format, model.NewExtractionError(source, format.String(), "document has no text layer", nil)
	}
}

// ProcessPDF reads the page text of a PDF and extracts from it
func (p *Pipeline) ProcessPDF(ctx context.Context, data []byte, source string) *Result {
	text, err := p.pdf.ExtractText(ctx, data, source)
	if err != nil {
		return &Result{Source: source, Format: FormatPDF, Error: err}
	}
	result := p.ProcessText(ctx, text, source)
	result.Format = FormatPDF
	return result
}

// ProcessText extracts from already materialized text. Heuristic extraction never fails;
// a gap-filling failure is reported as a warning.
func (p *Pipeline) ProcessText(ctx context.Context, text, source string) *Result {
	result := &Result{
		Source:  source,
		Format:  FormatText,
		Invoice: p.extractor.ParseText(text, source),
		Method:  MethodHeuristic,
	}

	if p.llm != nil {
		filled, err := p.llm.FillGaps(ctx, text, result.Invoice)
		switch {
		case err != nil:
			result.Warnings = append(result.Warnings, fmt.Sprintf("LLM gap filling failed: %v", err))
			logging.LogError(p.logger, "processor", "ProcessText", "fill gaps", source, err)
		case len(filled) > 0:
			result.Method = MethodLLMAssist
			result.Warnings = append(result.Warnings, fmt.Sprintf("fields filled by LLM: %v", filled))
		}
	}

	p.logger.WithFields(logrus.Fields{
		"source":        source,
		"document_type": result.Invoice.DocumentType,
		"line_items":    len(result.Invoice.LineItems),
		"method":        result.Method,
	}).Debug("document extracted")
	return result
}

// ExtractAll processes documents concurrently. Results keep the input order; a failed
// document carries its error in its Result. The returned error is only set when ctx ends.
func (p *Pipeline) ExtractAll(ctx context.Context, docs []Document) ([]*Result, error) {
	results := make([]*Result, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	if p.workers > 0 {
		g.SetLimit(p.workers)
	}
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			docCtx, cancel := ctx, context.CancelFunc(func() {})
			if p.timeout > 0 {
				docCtx, cancel = context.WithTimeout(ctx, p.timeout)
			}
			defer cancel()
			results[i] = p.Process(docCtx, doc.Data, doc.Name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Invoices collects the extracted invoices of successful results
func Invoices(results []*Result) []*model.Invoice {
	invoices := make([]*model.Invoice, 0, len(results))
	for _, r := range results {
		if r != nil && r.Invoice != nil {
			invoices = append(invoices, r.Invoice)
		}
	}
	return invoices
}
