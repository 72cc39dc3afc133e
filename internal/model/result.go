package model

// InvoiceValidationResult holds the outcome of validating one invoice
type InvoiceValidationResult struct {
	InvoiceID string   `json:"invoice_id"`
	IsValid   bool     `json:"is_valid"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
}

// ValidationSummary aggregates results across one batch
type ValidationSummary struct {
	TotalInvoices   int            `json:"total_invoices"`
	ValidInvoices   int            `json:"valid_invoices"`
	InvalidInvoices int            `json:"invalid_invoices"`
	ErrorCounts     map[string]int `json:"error_counts"`
}

// ValidationResponse is the batch validation output. Results mirror input order.
type ValidationResponse struct {
	Summary ValidationSummary         `json:"summary"`
	Results []InvoiceValidationResult `json:"results"`
}

// ExtractAndValidateResponse pairs extracted invoices with their validation
type ExtractAndValidateResponse struct {
	Invoices   []*Invoice         `json:"invoices"`
	Validation ValidationResponse `json:"validation"`
}
