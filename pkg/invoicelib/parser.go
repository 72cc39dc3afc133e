package invoicelib

import (
	"github.com/Alphavirusboy/invoice-qc-service/internal/extractor"
	"github.com/Alphavirusboy/invoice-qc-service/internal/schema"
	"github.com/Alphavirusboy/invoice-qc-service/internal/validator"
)

// ParseText extracts an invoice from plain text. It never fails; fields that
// cannot be found are absent. sourceName becomes the external reference when
// the text carries none.
func ParseText(text, sourceName string) *Invoice {
	return extractor.ParseText(text, sourceName)
}

// ValidateInvoices validates a batch with the default currencies and tolerance.
// Results mirror the input order.
func ValidateInvoices(invoices []*Invoice) ValidationResponse {
	return validator.Validate(invoices)
}

// DecodeInvoices checks a JSON array of invoices against the input schema and
// decodes it. Structural problems are returned as *ValidationError.
func DecodeInvoices(data []byte) ([]*Invoice, error) {
	return schema.DecodeInvoices(data)
}

// Classify reports whether text looks like an invoice or a purchase order
func Classify(text string) DocumentType {
	return extractor.Classify(text)
}
