package extractor

import (
	"regexp"

	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
)

// poItemsHeader is the items-table header distinctive to the procurement layout.
// An "Item" header needs a material or article column so that a generic invoice
// table ("Item Description Qty Price Total") stays an invoice.
var poItemsHeader = regexp.MustCompile(`(?im)^\s*(?:(?:pos\.?|position)\s+.*\b(?:material|description|bezeichnung|article|artikel)\b|items?\s+.*\b(?:material|article|artikel)\b).*\b(?:quantity|qty|menge)\b`)

var (
	orderNumberMarker = regexp.MustCompile(`(?i)\border\s*(?:number|no\.?|nr\.?|#)`)
	orderKeyword      = regexp.MustCompile(`(?i)\b(?:order(?:ed)?|deliver(?:y|ed)?|bestellung)\b`)
)

var purchaseOrderMarkers = []func(string) bool{
	regexp.MustCompile(`(?i)\bpurchase\s+order\b`).MatchString,
	regexp.MustCompile(`(?i)\bPO\s*(?:number|no\.?|#)`).MatchString,
	regexp.MustCompile(`(?i)\bbestell(?:ung|nummer)\b`).MatchString,
	orderNumberWithKeyword,
	poItemsHeader.MatchString,
}

// orderNumberWithKeyword reports an order-number marker plus another order keyword
// outside of it
func orderNumberWithKeyword(text string) bool {
	loc := orderNumberMarker.FindStringIndex(text)
	if loc == nil {
		return false
	}
	return orderKeyword.MatchString(text[:loc[0]]) || orderKeyword.MatchString(text[loc[1]:])
}

// Classify decides the layout family of normalized text. Any procurement marker
// makes it a purchase order; everything else is an invoice.
func Classify(text string) model.DocumentType {
	for _, matches := range purchaseOrderMarkers {
		if matches(text) {
			return model.DocumentTypePurchaseOrder
		}
	}
	return model.DocumentTypeInvoice
}
