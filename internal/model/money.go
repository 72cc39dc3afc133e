package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an optional monetary amount. A present value keeps the raw token it was
// built from, so a value that cannot be reduced to a decimal survives until validation.
type Money struct {
	raw     string
	present bool
}

// NewMoney builds a present amount from a decimal
func NewMoney(d decimal.Decimal) Money {
	return Money{raw: d.String(), present: true}
}

// MoneyFromRaw builds a present amount from an unparsed token
func MoneyFromRaw(raw string) Money {
	return Money{raw: strings.TrimSpace(raw), present: true}
}

// IsPresent reports whether a value was supplied
func (m Money) IsPresent() bool {
	return m.present
}

// Raw returns the token as supplied
func (m Money) Raw() string {
	return m.raw
}

// Decimal parses the raw token. ok is false when absent or not numeric.
func (m Money) Decimal() (d decimal.Decimal, ok bool) {
	if !m.present || m.raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(m.raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// MarshalJSON writes null when absent, a number when numeric and a string otherwise
func (m Money) MarshalJSON() ([]byte, error) {
	if !m.present {
		return []byte("null"), nil
	}
	if d, ok := m.Decimal(); ok {
		return []byte(d.String()), nil
	}
	return json.Marshal(m.raw)
}

// UnmarshalJSON accepts null, a JSON number or a string
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Money{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = MoneyFromRaw(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*m = MoneyFromRaw(n.String())
	return nil
}
