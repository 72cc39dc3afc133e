package validator

// Error and warning codes, shaped "<category>: <detail>"
const (
	CodeDuplicate            = "anomaly: duplicate_invoice"
	CodeInvoiceDateFormat    = "format: invoice_date_unparseable"
	CodeDueDateFormat        = "format: due_date_unparseable"
	CodeDueBeforeInvoiceDate = "business: due_before_invoice_date"
	CodeMissingCurrency      = "missing_field: currency"
	CodeUnknownCurrency      = "format: currency_unknown"
	CodeTotalsMismatch       = "business: totals_mismatch"
	CodeLineItemsMismatch    = "business: line_items_sum_mismatch"
	CodeZeroNetWithItems     = "anomaly: zero_net_with_line_items"
)

// MissingField is the completeness code for field
func MissingField(field string) string {
	return "missing_field: " + field
}

// NotNumeric is the money format code for field
func NotNumeric(field string) string {
	return "format: " + field + "_not_numeric"
}

// Negative is the money sign code for field
func Negative(field string) string {
	return "business: " + field + "_negative"
}
