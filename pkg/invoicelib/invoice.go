// Package invoicelib provides a public API for extracting and validating invoices.
//
// Text extraction is heuristic: label patterns recover the scalar fields and
// amounts, and line items are rebuilt from the item table. Validation checks a
// batch of invoices for completeness, formats, arithmetic and duplicates.
//
// Example usage:
//
//	inv := invoicelib.ParseText(text, "invoice-001.txt")
//	resp := invoicelib.ValidateInvoices([]*invoicelib.Invoice{inv})
//	fmt.Println(resp.Summary.InvalidInvoices)
package invoicelib

import "github.com/Alphavirusboy/invoice-qc-service/internal/model"

// Re-export core types for public API
type (
	Invoice                    = model.Invoice
	LineItem                   = model.LineItem
	Money                      = model.Money
	DocumentType               = model.DocumentType
	InvoiceValidationResult    = model.InvoiceValidationResult
	ValidationSummary          = model.ValidationSummary
	ValidationResponse         = model.ValidationResponse
	ExtractAndValidateResponse = model.ExtractAndValidateResponse
)

// Re-export document types
const (
	DocumentTypeInvoice       = model.DocumentTypeInvoice
	DocumentTypePurchaseOrder = model.DocumentTypePurchaseOrder
)

// Re-export error types
type (
	ValidationError = model.ValidationError
	ExtractionError = model.ExtractionError
)
