package extractor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
)

// sellerWindow is how many lines above the address anchor are searched for the seller
const sellerWindow = 5

const minPartyNameLen = 3

var (
	addressAnchor = regexp.MustCompile(`(?i)^\s*(?:invoice\s+address|bill(?:ing)?\s+to|rechnungsanschrift|rechnungsadresse)\s*:?\s*$`)

	partyDenylist = regexp.MustCompile(`(?i)\b(?:page|seite|fax|phone|tel\.?|telefon|order|bestell\w*|purchase|date|datum)\b`)

	// company name in front of an order keyword and an order-number marker
	orderLinePrefix = regexp.MustCompile(`(?i)^\s*(.+?)\s+(?:purchase\s+order|bestellung|order)\s*(?:no\.?|number|nr\.?|#)`)
)

// parties extracts seller and buyer names for the document's layout
func parties(doc model.DocumentType, text string) (seller, buyer *string) {
	if doc == model.DocumentTypePurchaseOrder {
		return anchoredParties(text)
	}
	return FirstMatch(RulesFor(FieldSeller, doc), text), FirstMatch(RulesFor(FieldBuyer, doc), text)
}

// anchoredParties reads the buyer from the line after the address anchor and the
// seller from the short window of lines above it.
func anchoredParties(text string) (seller, buyer *string) {
	lines := strings.Split(text, "\n")

	anchor := -1
	for i, line := range lines {
		if addressAnchor.MatchString(line) {
			anchor = i
			break
		}
	}

	if anchor >= 0 {
		for _, line := range lines[anchor+1:] {
			if name := strings.TrimSpace(line); name != "" {
				buyer = &name
				break
			}
		}

		start := anchor - sellerWindow
		if start < 0 {
			start = 0
		}
		for _, line := range lines[start:anchor] {
			if name := strings.TrimSpace(line); acceptablePartyName(name) {
				seller = &name
				break
			}
		}
	}

	if seller == nil {
		seller = companyFromOrderLine(lines)
	}
	return seller, buyer
}

func companyFromOrderLine(lines []string) *string {
	for _, line := range lines {
		m := orderLinePrefix.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if name := strings.TrimSpace(m[1]); utf8.RuneCountInString(name) >= minPartyNameLen && hasLetter(name) {
			return &name
		}
	}
	return nil
}

func acceptablePartyName(s string) bool {
	if utf8.RuneCountInString(s) < minPartyNameLen || !hasLetter(s) {
		return false
	}
	return !partyDenylist.MatchString(s)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
