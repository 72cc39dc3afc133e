package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
)

const resourceName = "invoices.json"

// BuildInvoiceSchema returns the JSON Schema of an array of invoices as a generic map.
// Unknown properties are ignored. Money fields accept any string so that a malformed
// amount reaches validation and is reported there.
func BuildInvoiceSchema() map[string]any {
	invoice := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"invoice_number":     nullableString(),
			"external_reference": nullableString(),
			"invoice_date":       nullableString(),
			"due_date":           nullableString(),
			"seller_name":        nullableString(),
			"seller_address":     nullableString(),
			"seller_tax_id":      nullableString(),
			"buyer_name":         nullableString(),
			"buyer_address":      nullableString(),
			"buyer_tax_id":       nullableString(),
			"currency":           nullableString(),
			"payment_terms":      nullableString(),
			"notes":              nullableString(),
			"document_type":      map[string]any{"enum": []any{"invoice", "purchase_order", nil}},
			"net_total":          moneyProp(),
			"tax_amount":         moneyProp(),
			"gross_total":        moneyProp(),
			"line_items": map[string]any{
				"type":  []string{"array", "null"},
				"items": lineItem(),
			},
		},
	}

	return map[string]any{
		"type":  "array",
		"items": invoice,
	}
}

func lineItem() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"description": nullableString(),
			"quantity":    numericProp(),
			"unit_price":  numericProp(),
			"line_total":  numericProp(),
			"tax_rate":    numericProp(),
		},
	}
}

func nullableString() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}

func moneyProp() map[string]any {
	return map[string]any{"type": []string{"number", "string", "null"}}
}

func numericProp() map[string]any {
	return map[string]any{
		"oneOf": []any{
			map[string]any{"type": []string{"number", "null"}},
			map[string]any{"type": "string", "pattern": `^-?\d+(\.\d+)?$`},
		},
	}
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func invoiceSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		b, err := json.Marshal(BuildInvoiceSchema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(resourceName, bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(resourceName)
	})
	return compiled, compileErr
}

// DecodeInvoices checks data against the invoice array schema and decodes it.
// Structural problems come back as *model.ValidationError.
func DecodeInvoices(data []byte) ([]*model.Invoice, error) {
	s, err := invoiceSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, model.NewValidationError("body", nil, "json", "malformed JSON", err)
	}
	if err := s.Validate(v); err != nil {
		field := "body"
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			field = leafLocation(verr)
		}
		return nil, model.NewValidationError(field, nil, "schema", "json does not match schema", err)
	}

	var invoices []*model.Invoice
	if err := json.Unmarshal(data, &invoices); err != nil {
		return nil, model.NewValidationError("body", nil, "decode", "cannot decode invoices", err)
	}
	return invoices, nil
}

// leafLocation returns the instance location of the deepest cause
func leafLocation(verr *jsonschema.ValidationError) string {
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}
	if verr.InstanceLocation == "" {
		return "body"
	}
	return verr.InstanceLocation
}
