package extractor

import (
	"regexp"
	"strings"
)

type currencySymbol struct {
	symbol string
	code   string
}

// currencySymbols is scanned in order; the first symbol present anywhere wins
var currencySymbols = []currencySymbol{
	{"€", "EUR"},
	{"$", "USD"},
	{"₹", "INR"},
	{"£", "GBP"},
}

var currencyCode = regexp.MustCompile(`\b(EUR|USD|GBP|INR)\b`)

// DetectCurrency resolves the currency code: symbol first, then an ISO code token,
// then fallback when it belongs to allowed.
func DetectCurrency(text, fallback string, allowed map[string]struct{}) *string {
	for _, cs := range currencySymbols {
		if strings.Contains(text, cs.symbol) {
			code := cs.code
			return &code
		}
	}
	if m := currencyCode.FindStringSubmatch(text); m != nil {
		code := m[1]
		return &code
	}

	fallback = strings.ToUpper(strings.TrimSpace(fallback))
	if _, ok := allowed[fallback]; ok && fallback != "" {
		return &fallback
	}
	return nil
}
