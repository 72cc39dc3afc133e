package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
	"github.com/Alphavirusboy/invoice-qc-service/internal/schema"
)

func TestDecodeInvoices(t *testing.T) {
	body := []byte(`[
		{
			"invoice_number": "INV-1",
			"seller_name": "ACME",
			"net_total": 100.0,
			"tax_amount": "19.00",
			"gross_total": "abc",
			"unknown_field": true,
			"line_items": [
				{"description": "Widget", "quantity": 2, "line_total": "100.00"}
			]
		},
		{"invoice_number": null, "line_items": null}
	]`)

	invoices, err := schema.DecodeInvoices(body)
	require.NoError(t, err)
	require.Len(t, invoices, 2)

	inv := invoices[0]
	assert.Equal(t, "INV-1", model.Value(inv.InvoiceNumber))
	assert.Equal(t, "19.00", inv.TaxAmount.Raw())
	assert.True(t, inv.GrossTotal.IsPresent())
	_, ok := inv.GrossTotal.Decimal()
	assert.False(t, ok)
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, "100", inv.LineItems[0].LineTotal.Decimal.String())

	assert.Nil(t, invoices[1].InvoiceNumber)
	assert.Empty(t, invoices[1].LineItems)
}

func TestDecodeInvoices_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
		rule  string
	}{
		{"not json", `{`, "body", "json"},
		{"object instead of array", `{"invoice_number": "1"}`, "body", "schema"},
		{"number as identifier", `[{"invoice_number": 42}]`, "/0/invoice_number", "schema"},
		{"non numeric quantity", `[{"line_items": [{"quantity": "two"}]}]`, "/0/line_items/0/quantity", "schema"},
		{"boolean money", `[{"net_total": true}]`, "/0/net_total", "schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.DecodeInvoices([]byte(tt.body))
			require.Error(t, err)

			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.rule, verr.Rule)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestBuildInvoiceSchema(t *testing.T) {
	s := schema.BuildInvoiceSchema()
	assert.Equal(t, "array", s["type"])
	assert.NotNil(t, s["items"])
}
