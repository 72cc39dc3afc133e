package model

// DefaultCurrencies is the allowed currency set used when none is configured
var DefaultCurrencies = []string{"EUR", "USD", "GBP", "INR"}

// CurrencySet builds a lookup set from codes
func CurrencySet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}
