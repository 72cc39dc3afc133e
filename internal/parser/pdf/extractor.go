package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
)

const method = "pdf"

var disableConfigDir sync.Once

// Extractor turns PDF bytes into one newline-joined text blob, one block per page
type Extractor struct {
	conf *pdfmodel.Configuration
}

// NewExtractor creates a PDF text extractor with relaxed validation
func NewExtractor() *Extractor {
	disableConfigDir.Do(api.DisableConfigDir)

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return &Extractor{conf: conf}
}

// ExtractText reads every page's content stream. Blank pages contribute an empty string.
func (e *Extractor) ExtractText(ctx context.Context, data []byte, source string) (text string, err error) {
	// pdfcpu can panic on badly broken cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text, err = "", model.NewExtractionError(source, method, fmt.Sprintf("malformed PDF: %v", r), nil)
		}
	}()

	if len(data) == 0 {
		return "", model.NewExtractionError(source, method, "empty document", nil)
	}

	pctx, err := api.ReadContext(bytes.NewReader(data), e.conf)
	if err != nil {
		return "", model.NewExtractionError(source, method, "failed to read PDF", err)
	}
	if err := api.ValidateContext(pctx); err != nil {
		return "", model.NewExtractionError(source, method, "invalid PDF", err)
	}
	if err := pctx.EnsurePageCount(); err != nil {
		return "", model.NewExtractionError(source, method, "failed to count pages", err)
	}

	pages := make([]string, 0, pctx.PageCount)
	for nr := 1; nr <= pctx.PageCount; nr++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page, err := pageText(pctx, nr)
		if err != nil {
			return "", model.NewExtractionError(source, method, "failed to extract page content", err)
		}
		pages = append(pages, page)
	}
	return strings.Join(pages, "\n"), nil
}

func pageText(pctx *pdfmodel.Context, nr int) (string, error) {
	r, err := pdfcpu.ExtractPageContent(pctx, nr)
	if err != nil {
		return "", err
	}
	if r == nil {
		return "", nil
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return ContentText(content), nil
}
