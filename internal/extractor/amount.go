package extractor

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	plainNumber    = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
	currencyPrefix = regexp.MustCompile(`^(?:[€$£₹]|[A-Z]{3}\b)\s*`)
)

// ToNumber converts a locale-ambiguous numeric token to a decimal.
//
// When both ',' and '.' occur, the right-most one is the decimal separator and every
// occurrence of the other is a grouping separator. When only ',' occurs it is a grouping
// separator if it repeats or is followed by exactly three digits ("1,234" is 1234), and a
// decimal separator if followed by at most four digits ("64,00", "16,0000"). Anything else
// is parsed as a plain decimal literal. A leading currency symbol or upper-case ISO code
// is dropped ("€119,00", "EUR 16,00"). ok is false on any other non-numeric residue.
func ToNumber(token string) (d decimal.Decimal, ok bool) {
	s := currencyPrefix.ReplaceAllString(strings.TrimSpace(token), "")
	s = strings.TrimRight(s, ".,")
	if s == "" {
		return decimal.Zero, false
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		tail := len(s) - comma - 1
		if strings.Count(s, ",") == 1 && tail != 3 && tail <= 4 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	if !plainNumber.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// FindAmount tries rules strictly in order. The first rule that matches decides the
// outcome, even when its capture does not parse.
func FindAmount(text string, rules []Rule) (decimal.Decimal, bool) {
	for _, r := range rules {
		if raw, matched := r.capture(text); matched {
			return ToNumber(raw)
		}
	}
	return decimal.Zero, false
}
