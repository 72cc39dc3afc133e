package extractor

import (
	"strings"

	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
)

// DefaultCurrencyFallback is used when the text names no currency
const DefaultCurrencyFallback = "EUR"

// Extractor maps normalized document text to an Invoice. It is safe for concurrent use.
type Extractor struct {
	currencyFallback string
	allowed          map[string]struct{}
}

// Option configures the extractor
type Option func(*Extractor)

// WithCurrencyFallback sets the code used when no symbol or ISO token is found
func WithCurrencyFallback(code string) Option {
	return func(e *Extractor) {
		e.currencyFallback = code
	}
}

// WithAllowedCurrencies restricts which fallback codes are accepted
func WithAllowedCurrencies(codes []string) Option {
	return func(e *Extractor) {
		e.allowed = model.CurrencySet(codes)
	}
}

// New creates an extractor
func New(opts ...Option) *Extractor {
	e := &Extractor{
		currencyFallback: DefaultCurrencyFallback,
		allowed:          model.CurrencySet(model.DefaultCurrencies),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ParseText extracts an invoice from text. It never fails; anything not found stays absent.
func (e *Extractor) ParseText(text, sourceName string) *model.Invoice {
	normalized := strings.ReplaceAll(text, "\r", "")
	doc := Classify(normalized)

	inv := &model.Invoice{DocumentType: doc}
	inv.InvoiceNumber = FirstMatch(RulesFor(FieldNumber, doc), normalized)
	inv.InvoiceDate = FirstMatch(RulesFor(FieldDate, doc), normalized)
	inv.DueDate = FirstMatch(RulesFor(FieldDueDate, doc), normalized)
	inv.Currency = DetectCurrency(normalized, e.currencyFallback, e.allowed)
	inv.PaymentTerms = FirstMatch(RulesFor(FieldPaymentTerms, doc), normalized)
	inv.SellerName, inv.BuyerName = parties(doc, normalized)

	inv.NetTotal = amount(normalized, RulesFor(FieldNet, doc))
	inv.TaxAmount = amount(normalized, RulesFor(FieldTax, doc))
	inv.GrossTotal = amount(normalized, RulesFor(FieldGross, doc))

	if doc == model.DocumentTypePurchaseOrder {
		inv.LineItems = PurchaseOrderItems(normalized)
	} else {
		inv.LineItems = GenericItems(normalized)
	}
	inv.Notes = FirstMatch(RulesFor(FieldNotes, doc), normalized)

	if inv.ExternalReference == nil {
		inv.ExternalReference = model.String(sourceName)
	}
	return inv
}

func amount(text string, rules []Rule) model.Money {
	d, ok := FindAmount(text, rules)
	if !ok {
		return model.Money{}
	}
	return model.NewMoney(d)
}

var defaultExtractor = New()

// ParseText extracts with the default settings
func ParseText(text, sourceName string) *model.Invoice {
	return defaultExtractor.ParseText(text, sourceName)
}
