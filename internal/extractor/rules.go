package extractor

import (
	"regexp"
	"strings"

	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
)

// Field names a scalar extracted from document text
type Field string

const (
	FieldNumber       Field = "invoice_number"
	FieldDate         Field = "invoice_date"
	FieldDueDate      Field = "due_date"
	FieldPaymentTerms Field = "payment_terms"
	FieldSeller       Field = "seller_name"
	FieldBuyer        Field = "buyer_name"
	FieldNotes        Field = "notes"
	FieldNet          Field = "net_total"
	FieldTax          Field = "tax_amount"
	FieldGross        Field = "gross_total"
)

// Rule is one entry of an ordered pattern table. Position in the table is its priority.
type Rule struct {
	Field   Field
	Doc     model.DocumentType // empty applies to every document type
	Pattern *regexp.Regexp
	Group   int // capture group to read; 0 selects the last one
}

// LabelRule wraps a bare label in the generic "label, then first numeric token" pattern
func LabelRule(field Field, doc model.DocumentType, label string) Rule {
	expr := `(?i)\b` + regexp.QuoteMeta(label) + `\b[^\d\-\n]*(-?\d[\d.,]*)`
	return Rule{Field: field, Doc: doc, Pattern: regexp.MustCompile(expr)}
}

// PatternRule uses a full pattern carrying its own capture group
func PatternRule(field Field, doc model.DocumentType, group int, expr string) Rule {
	return Rule{Field: field, Doc: doc, Pattern: regexp.MustCompile(expr), Group: group}
}

func (r Rule) appliesTo(doc model.DocumentType) bool {
	return r.Doc == "" || r.Doc == doc
}

// capture returns the selected group of the first match
func (r Rule) capture(text string) (string, bool) {
	m := r.Pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	idx := r.Group
	if idx <= 0 || idx >= len(m) {
		idx = len(m) - 1
	}
	return m[idx], true
}

const (
	inv = model.DocumentTypeInvoice
	po  = model.DocumentTypePurchaseOrder

	datePart   = `(\d{1,2}[./-]\d{1,2}[./-]\d{2,4}|\d{4}[./-]\d{1,2}[./-]\d{1,2})`
	namedDate  = `(\d{1,2}\.?\s+[A-Za-z]{3,9}\.?\s+\d{4}|[A-Za-z]{3,9}\.?\s+\d{1,2},?\s+\d{4})`
	identifier = `([A-Za-z0-9][A-Za-z0-9\-_/]*)`
	sep        = `\s*[:\-]?\s*`
	// labeled-line separator; never crosses into the next line
	lineSep    = `[ \t]*[:\-]?[ \t]*`
	// optional currency code or symbol in front of an amount
	amountLead = `\s*[:=]?\s*(?:[A-Za-z]{3}\s*)?[€$£₹]?\s*`
	amountTok  = `(-?\d[\d.,]*)`
	taxRate    = `(?:\s*\(?\s*\d+(?:[.,]\d+)?\s*%\s*\)?)?`
)

// fieldRules is the ordered scalar pattern table. Text rules read one capture group.
var fieldRules = []Rule{
	// invoice identifiers
	PatternRule(FieldNumber, inv, 1, `(?i)\binvoice\s*(?:number|no\.?|nr\.?|#)`+sep+identifier),
	PatternRule(FieldNumber, inv, 1, `(?i)\binvoice\s*[:\-]\s*`+identifier),
	PatternRule(FieldNumber, inv, 1, `(?i)\b(?:rechnungsnummer|rechnung\s*nr\.?)`+sep+identifier),

	// purchase order identifiers
	PatternRule(FieldNumber, po, 1, `(?i)\bpurchase\s+order\s*(?:number|no\.?|nr\.?|#)?`+sep+`(\d[A-Za-z0-9\-_/]*)`),
	PatternRule(FieldNumber, po, 1, `(?i)\bPO\s*(?:number|no\.?|#)`+sep+identifier),
	PatternRule(FieldNumber, po, 1, `(?i)\bbestell(?:nummer|ung\s*nr\.?)`+sep+identifier),
	PatternRule(FieldNumber, po, 1, `(?i)\border\s*(?:number|no\.?|nr\.?)`+sep+identifier),

	// invoice dates
	PatternRule(FieldDate, inv, 1, `(?i)\binvoice\s*date`+sep+datePart),
	PatternRule(FieldDate, inv, 1, `(?i)\bdate`+sep+`(\d{4}[./-]\d{1,2}[./-]\d{1,2})`),
	PatternRule(FieldDate, inv, 1, `(?i)\binvoice\s*date`+sep+namedDate),
	PatternRule(FieldDate, inv, 1, `(?i)\b(?:rechnungsdatum|date)`+sep+datePart),

	// purchase order dates
	PatternRule(FieldDate, po, 1, `(?i)\b(?:order\s+date|date\s+of\s+order|po\s+date|bestelldatum)`+sep+datePart),
	PatternRule(FieldDate, po, 1, `(?i)\b(?:date|datum)`+sep+datePart),
	PatternRule(FieldDate, po, 1, `(?i)\b(?:order\s+date|date)`+sep+namedDate),

	PatternRule(FieldDueDate, inv, 1, `(?i)\bdue\s*date`+sep+datePart),
	PatternRule(FieldDueDate, inv, 1, `(?i)\b(?:payment\s+due|due\s+by)`+sep+datePart),
	PatternRule(FieldDueDate, inv, 1, `(?i)\bdue\s*date`+sep+namedDate),
	PatternRule(FieldDueDate, po, 1, `(?i)\b(?:delivery\s+date|deliver\s+by|liefertermin|lieferdatum)`+sep+datePart),

	PatternRule(FieldPaymentTerms, inv, 1, `(?i)\b(net\s+\d+(?:\s+days)?|payment\s+terms[:\-]?\s*[A-Za-z0-9 ]+)`),
	PatternRule(FieldPaymentTerms, po, 1, `(?i)\b(?:terms\s+of\s+payment|payment\s+terms|zahlungsbedingungen)`+sep+`([^\n]+)`),

	PatternRule(FieldSeller, inv, 1, `(?i)\bseller`+lineSep+`([^\s:\-].*)`),
	PatternRule(FieldSeller, inv, 1, `(?i)\b(?:supplier|vendor|sold\s+by)\s*[:\-]\s*(.+)`),
	PatternRule(FieldBuyer, inv, 1, `(?i)\bbuyer`+lineSep+`([^\s:\-].*)`),
	PatternRule(FieldBuyer, inv, 1, `(?i)\b(?:bill\s+to|customer|sold\s+to)\s*[:\-]\s*(.+)`),

	PatternRule(FieldNotes, "", 1, `(?i)\bnotes?\s*[:\-]\s*(.+)`),
}

// amountRules is the ordered net/tax/gross table
var amountRules = []Rule{
	LabelRule(FieldNet, inv, "Subtotal"),
	LabelRule(FieldNet, inv, "Sub Total"),
	LabelRule(FieldNet, inv, "Net Total"),
	LabelRule(FieldNet, inv, "Net Amount"),

	LabelRule(FieldNet, po, "Total net value"),
	LabelRule(FieldNet, po, "Net value"),
	LabelRule(FieldNet, po, "Gesamtnettowert"),
	LabelRule(FieldNet, po, "Nettowert"),
	LabelRule(FieldNet, po, "Net Amount"),

	PatternRule(FieldTax, "", 0, `(?im)^\s*(?:VAT|GST|Tax)(?:\s+amount)?`+taxRate+amountLead+amountTok),
	LabelRule(FieldTax, "", "Tax Amount"),
	PatternRule(FieldTax, po, 0, `(?im)^\s*(?:Mehrwertsteuer|MwSt\.?|USt\.?)`+taxRate+amountLead+amountTok),

	LabelRule(FieldGross, inv, "Grand Total"),
	LabelRule(FieldGross, inv, "Invoice Total"),
	LabelRule(FieldGross, inv, "Total Due"),
	LabelRule(FieldGross, inv, "Amount Due"),
	LabelRule(FieldGross, inv, "Total Amount"),

	LabelRule(FieldGross, po, "Total gross value"),
	LabelRule(FieldGross, po, "Gross value"),
	LabelRule(FieldGross, po, "Gesamtbetrag"),
	LabelRule(FieldGross, po, "Grand Total"),
	LabelRule(FieldGross, po, "Total Amount"),

	PatternRule(FieldGross, "", 0, `(?im)^\s*total`+amountLead+amountTok),
}

type ruleKey struct {
	field Field
	doc   model.DocumentType
}

// rulesByKey holds the tables split per field and document type, order preserved
var rulesByKey = buildRuleIndex(fieldRules, amountRules)

func buildRuleIndex(tables ...[]Rule) map[ruleKey][]Rule {
	index := make(map[ruleKey][]Rule)
	docs := []model.DocumentType{inv, po}
	for _, table := range tables {
		for _, r := range table {
			for _, d := range docs {
				if r.appliesTo(d) {
					k := ruleKey{r.Field, d}
					index[k] = append(index[k], r)
				}
			}
		}
	}
	return index
}

// RulesFor returns the ordered rules for one field and document type
func RulesFor(field Field, doc model.DocumentType) []Rule {
	return rulesByKey[ruleKey{field, doc}]
}

// FirstMatch returns the first rule capture that is non-empty after trimming
func FirstMatch(rules []Rule, text string) *string {
	for _, r := range rules {
		if v, ok := r.capture(text); ok {
			if v = strings.TrimSpace(v); v != "" {
				return &v
			}
		}
	}
	return nil
}
