package model

import "github.com/shopspring/decimal"

// UnknownID labels an invoice that carries neither a number nor an external reference
const UnknownID = "<unknown>"

// DocumentType identifies the layout family of a source document
type DocumentType string

const (
	DocumentTypeInvoice       DocumentType = "invoice"
	DocumentTypePurchaseOrder DocumentType = "purchase_order"
)

// Invoice is the structured record produced by extraction and consumed by validation.
// It also represents purchase orders.
type Invoice struct {
	InvoiceNumber     *string      `json:"invoice_number"`
	ExternalReference *string      `json:"external_reference"`
	InvoiceDate       *string      `json:"invoice_date"`
	DueDate           *string      `json:"due_date"`
	SellerName        *string      `json:"seller_name"`
	SellerAddress     *string      `json:"seller_address"`
	SellerTaxID       *string      `json:"seller_tax_id"`
	BuyerName         *string      `json:"buyer_name"`
	BuyerAddress      *string      `json:"buyer_address"`
	BuyerTaxID        *string      `json:"buyer_tax_id"`
	Currency          *string      `json:"currency"`
	PaymentTerms      *string      `json:"payment_terms"`
	NetTotal          Money        `json:"net_total"`
	TaxAmount         Money        `json:"tax_amount"`
	GrossTotal        Money        `json:"gross_total"`
	Notes             *string      `json:"notes"`
	DocumentType      DocumentType `json:"document_type,omitempty"`
	LineItems         []LineItem   `json:"line_items"`
}

// LineItem is one billed good or service
type LineItem struct {
	Description *string             `json:"description"`
	Quantity    decimal.NullDecimal `json:"quantity"`
	UnitPrice   decimal.NullDecimal `json:"unit_price"`
	LineTotal   decimal.NullDecimal `json:"line_total"`
	TaxRate     decimal.NullDecimal `json:"tax_rate"`
}

// HasAmounts reports whether at least one numeric field is present
func (li LineItem) HasAmounts() bool {
	return li.Quantity.Valid || li.UnitPrice.Valid || li.LineTotal.Valid
}

// Keep reports whether the item carries enough data to be retained
func (li LineItem) Keep() bool {
	return Value(li.Description) != "" && li.HasAmounts()
}

// InvoiceKey is the composite duplicate-detection key
type InvoiceKey struct {
	Number string
	Seller string
	Date   string
}

// IsEmpty is true when every component is blank
func (k InvoiceKey) IsEmpty() bool {
	return k.Number == "" && k.Seller == "" && k.Date == ""
}

// Key returns the (number, seller, date) triple used for duplicate detection
func (inv *Invoice) Key() InvoiceKey {
	return InvoiceKey{
		Number: Value(inv.InvoiceNumber),
		Seller: Value(inv.SellerName),
		Date:   Value(inv.InvoiceDate),
	}
}

// DisplayID resolves a human-facing label. Never use it for equality.
func (inv *Invoice) DisplayID() string {
	if v := Value(inv.InvoiceNumber); v != "" {
		return v
	}
	if v := Value(inv.ExternalReference); v != "" {
		return v
	}
	return UnknownID
}

// String returns a pointer to s, or nil when s is empty
func String(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Value dereferences p, returning "" for nil
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
