package model_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
)

func TestInvoice_Key(t *testing.T) {
	inv := model.Invoice{
		InvoiceNumber: model.String("INV-1"),
		SellerName:    model.String("ACME"),
		InvoiceDate:   model.String("2024-01-15"),
	}

	key := inv.Key()
	assert.Equal(t, model.InvoiceKey{Number: "INV-1", Seller: "ACME", Date: "2024-01-15"}, key)
	assert.False(t, key.IsEmpty())

	var empty model.Invoice
	assert.True(t, empty.Key().IsEmpty())
}

func TestInvoice_DisplayID(t *testing.T) {
	tests := []struct {
		name     string
		inv      model.Invoice
		expected string
	}{
		{"number wins", model.Invoice{InvoiceNumber: model.String("A1"), ExternalReference: model.String("a.pdf")}, "A1"},
		{"external reference fallback", model.Invoice{ExternalReference: model.String("a.pdf")}, "a.pdf"},
		{"unknown", model.Invoice{}, model.UnknownID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.inv.DisplayID())
		})
	}
}

func TestLineItem_Keep(t *testing.T) {
	withTotal := model.LineItem{
		Description: model.String("Widget"),
		LineTotal:   decimal.NewNullDecimal(decimal.NewFromInt(10)),
	}
	assert.True(t, withTotal.Keep())

	noNumbers := model.LineItem{Description: model.String("Widget")}
	assert.False(t, noNumbers.Keep())

	noDescription := model.LineItem{Quantity: decimal.NewNullDecimal(decimal.NewFromInt(1))}
	assert.False(t, noDescription.Keep())
}

func TestString(t *testing.T) {
	assert.Nil(t, model.String(""))
	require.NotNil(t, model.String("x"))
	assert.Equal(t, "x", model.Value(model.String("x")))
	assert.Equal(t, "", model.Value(nil))
}

func TestMoney_Decimal(t *testing.T) {
	var absent model.Money
	assert.False(t, absent.IsPresent())
	_, ok := absent.Decimal()
	assert.False(t, ok)

	m := model.NewMoney(decimal.RequireFromString("119.00"))
	assert.True(t, m.IsPresent())
	d, ok := m.Decimal()
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.NewFromInt(119)))

	bad := model.MoneyFromRaw("abc")
	assert.True(t, bad.IsPresent())
	_, ok = bad.Decimal()
	assert.False(t, ok)
}

func TestMoney_JSON(t *testing.T) {
	var inv model.Invoice
	err := json.Unmarshal([]byte(`{"net_total": 100.5, "tax_amount": "19.10", "gross_total": null}`), &inv)
	require.NoError(t, err)

	net, ok := inv.NetTotal.Decimal()
	require.True(t, ok)
	assert.True(t, net.Equal(decimal.RequireFromString("100.5")))

	tax, ok := inv.TaxAmount.Decimal()
	require.True(t, ok)
	assert.True(t, tax.Equal(decimal.RequireFromString("19.1")))

	assert.False(t, inv.GrossTotal.IsPresent())

	out, err := json.Marshal(inv.NetTotal)
	require.NoError(t, err)
	assert.Equal(t, "100.5", string(out))

	out, err = json.Marshal(model.MoneyFromRaw("n/a"))
	require.NoError(t, err)
	assert.Equal(t, `"n/a"`, string(out))

	out, err = json.Marshal(inv.GrossTotal)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestExtractionError(t *testing.T) {
	cause := assert.AnError
	err := model.NewExtractionError("a.pdf", "pdf", "read failed", cause)

	require.Contains(t, err.Error(), "a.pdf")
	require.Contains(t, err.Error(), "read failed")
	require.ErrorIs(t, err, cause)
}

func TestValidationError(t *testing.T) {
	err := model.NewValidationError("invoices", "[]", "type", "must be an array", nil)

	require.Contains(t, err.Error(), "invoices")
	require.Contains(t, err.Error(), "must be an array")
	require.Contains(t, err.Error(), "rule=type")
}
