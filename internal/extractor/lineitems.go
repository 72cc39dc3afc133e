package extractor

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	money "github.com/Alphavirusboy/invoice-qc-service/internal/decimal"
	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
)

// genericRow is "description quantity unit-price total"
var genericRow = regexp.MustCompile(`^(.+?)\s+(\d+[\d.,]*)\s+(\d+[\d.,]*)\s+(\d+[\d.,]*)$`)

// GenericItems reads one item per physical line of the generic layout
func GenericItems(text string) []model.LineItem {
	var items []model.LineItem
	for _, line := range strings.Split(text, "\n") {
		m := genericRow.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		item := model.LineItem{
			Description: model.String(strings.TrimSpace(m[1])),
			Quantity:    nullNumber(m[2]),
			UnitPrice:   nullNumber(m[3]),
			LineTotal:   nullNumber(m[4]),
		}
		if item.Keep() {
			items = append(items, item)
		}
	}
	return items
}

var (
	// position, description, quantity, optional trailing tokens (unit, price), line total
	poRow = regexp.MustCompile(`^(\d{1,6})\s+(.+?)\s+(\d[\d.,]*)\s+(?:(.+?)\s+)?(-?\d[\d.,]*)$`)

	// "16,0000 per 1 unit", "EUR 16,00 / 1 PC", "16,00 EUR je 1 ST"
	perUnitSuffix = regexp.MustCompile(`(?i)(-?\d[\d.,]*[.,]\d{2,4})\s*(?:[A-Z]{3}\s*)?(?:per|/|je|pro)\s*(\d+(?:[.,]\d+)?)`)

	perUnitLabel = regexp.MustCompile(`(?i)\bprice\s+per\s+unit\s*[:\-]?\s*(?:[A-Z]{3}\s*)?(-?\d[\d.,]*)`)

	materialLine = regexp.MustCompile(`(?i)\b(?:material\s*(?:no\.?|number|nr\.?)|mat\.?\s*-?\s*nr\.?|materialnummer)\s*[:\-]?\s*\S+.*?\s(-?\d[\d.,]*[.,]\d{2,4})\s*$`)

	totalsMarker = regexp.MustCompile(`(?i)^\s*(?:(?:sub)?total|sum|summe|gesamt\w*|net\s+value)\b`)
)

type itemState int

const (
	stateIdle itemState = iota
	stateCollecting
	statePendingPrice
)

func (s itemState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateCollecting:
		return "collecting"
	case statePendingPrice:
		return "pending_price"
	default:
		return "unknown"
	}
}

// poReconstructor stitches procurement table rows whose unit price arrives on a later line
type poReconstructor struct {
	state   itemState
	pending model.LineItem
	items   []model.LineItem
}

func (r *poReconstructor) feed(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if r.state == stateIdle {
		if poItemsHeader.MatchString(line) {
			r.state = stateCollecting
		}
		return
	}

	if totalsMarker.MatchString(line) {
		r.finalize()
		r.state = stateIdle
		return
	}

	if m := poRow.FindStringSubmatch(line); m != nil {
		r.finalize()
		r.pending = model.LineItem{
			Description: model.String(strings.TrimSpace(m[2])),
			Quantity:    nullNumber(m[3]),
			LineTotal:   nullNumber(m[5]),
		}
		r.state = statePendingPrice
		return
	}

	if r.state == statePendingPrice {
		if price, ok := unitPrice(line); ok {
			r.pending.UnitPrice = decimal.NewNullDecimal(price)
			r.finalize()
		}
	}
}

// finalize appends the pending item, if any, and returns to collecting
func (r *poReconstructor) finalize() {
	if r.state != statePendingPrice {
		return
	}
	if r.pending.Keep() {
		r.items = append(r.items, r.pending)
	}
	r.pending = model.LineItem{}
	r.state = stateCollecting
}

func (r *poReconstructor) finish() []model.LineItem {
	r.finalize()
	return r.items
}

// PurchaseOrderItems reconstructs procurement rows split across lines
func PurchaseOrderItems(text string) []model.LineItem {
	r := &poReconstructor{}
	for _, line := range strings.Split(text, "\n") {
		r.feed(line)
	}
	return r.finish()
}

// unitPrice reads a price from a continuation line. A price unit above one divides the amount.
func unitPrice(line string) (decimal.Decimal, bool) {
	if m := perUnitSuffix.FindStringSubmatch(line); m != nil {
		amount, ok := ToNumber(m[1])
		if !ok {
			return decimal.Zero, false
		}
		if per, ok := ToNumber(m[2]); ok && per.GreaterThan(decimal.NewFromInt(1)) {
			return money.Div(amount, per), true
		}
		return amount, true
	}
	if m := perUnitLabel.FindStringSubmatch(line); m != nil {
		return ToNumber(m[1])
	}
	if m := materialLine.FindStringSubmatch(line); m != nil {
		return ToNumber(m[1])
	}
	return decimal.Zero, false
}

func nullNumber(token string) decimal.NullDecimal {
	d, ok := ToNumber(token)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
