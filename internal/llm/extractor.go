package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
)

// maxPromptText bounds the document text sent to the model
const maxPromptText = 12000

// Chatter is the part of Client the extractor needs
type Chatter interface {
	ChatText(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
}

// Extractor asks a model for the fields the heuristics left absent
type Extractor struct {
	client Chatter
	model  string
}

// ExtractorOption configures the extractor
type ExtractorOption func(*Extractor)

// WithModel sets the model used for gap filling
func WithModel(model string) ExtractorOption {
	return func(e *Extractor) {
		e.model = model
	}
}

// NewExtractor creates a gap-filling extractor
func NewExtractor(client Chatter, opts ...ExtractorOption) *Extractor {
	e := &Extractor{client: client}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LLMResponse mirrors the JSON object requested by UserPromptFillGaps
type LLMResponse struct {
	InvoiceNumber string      `json:"invoice_number"`
	InvoiceDate   string      `json:"invoice_date"`
	DueDate       string      `json:"due_date"`
	SellerName    string      `json:"seller_name"`
	SellerAddress string      `json:"seller_address"`
	SellerTaxID   string      `json:"seller_tax_id"`
	BuyerName     string      `json:"buyer_name"`
	BuyerAddress  string      `json:"buyer_address"`
	BuyerTaxID    string      `json:"buyer_tax_id"`
	Currency      string      `json:"currency"`
	PaymentTerms  string      `json:"payment_terms"`
	NetTotal      model.Money `json:"net_total"`
	TaxAmount     model.Money `json:"tax_amount"`
	GrossTotal    model.Money `json:"gross_total"`
}

type textSlot struct {
	name string
	dst  **string
	src  func(*LLMResponse) string
}

func textSlots(inv *model.Invoice) []textSlot {
	return []textSlot{
		{"invoice_number", &inv.InvoiceNumber, func(r *LLMResponse) string { return r.InvoiceNumber }},
		{"invoice_date", &inv.InvoiceDate, func(r *LLMResponse) string { return r.InvoiceDate }},
		{"due_date", &inv.DueDate, func(r *LLMResponse) string { return r.DueDate }},
		{"seller_name", &inv.SellerName, func(r *LLMResponse) string { return r.SellerName }},
		{"seller_address", &inv.SellerAddress, func(r *LLMResponse) string { return r.SellerAddress }},
		{"seller_tax_id", &inv.SellerTaxID, func(r *LLMResponse) string { return r.SellerTaxID }},
		{"buyer_name", &inv.BuyerName, func(r *LLMResponse) string { return r.BuyerName }},
		{"buyer_address", &inv.BuyerAddress, func(r *LLMResponse) string { return r.BuyerAddress }},
		{"buyer_tax_id", &inv.BuyerTaxID, func(r *LLMResponse) string { return r.BuyerTaxID }},
		{"currency", &inv.Currency, func(r *LLMResponse) string { return strings.ToUpper(r.Currency) }},
		{"payment_terms", &inv.PaymentTerms, func(r *LLMResponse) string { return r.PaymentTerms }},
	}
}

type moneySlot struct {
	name string
	dst  *model.Money
	src  func(*LLMResponse) model.Money
}

func moneySlots(inv *model.Invoice) []moneySlot {
	return []moneySlot{
		{"net_total", &inv.NetTotal, func(r *LLMResponse) model.Money { return r.NetTotal }},
		{"tax_amount", &inv.TaxAmount, func(r *LLMResponse) model.Money { return r.TaxAmount }},
		{"gross_total", &inv.GrossTotal, func(r *LLMResponse) model.Money { return r.GrossTotal }},
	}
}

// MissingFields lists the fields of inv the model could be asked for
func MissingFields(inv *model.Invoice) []string {
	var missing []string
	for _, s := range textSlots(inv) {
		if strings.TrimSpace(model.Value(*s.dst)) == "" {
			missing = append(missing, s.name)
		}
	}
	for _, s := range moneySlots(inv) {
		if !s.dst.IsPresent() {
			missing = append(missing, s.name)
		}
	}
	return missing
}

// FillGaps sets only fields that are absent on inv and returns their names.
// Values already present are never overwritten.
func (e *Extractor) FillGaps(ctx context.Context, text string, inv *model.Invoice) ([]string, error) {
	missing := MissingFields(inv)
	if len(missing) == 0 || strings.TrimSpace(text) == "" {
		return nil, nil
	}

	text = truncate(text, maxPromptText)
	prompt := fmt.Sprintf(UserPromptFillGaps, "- "+strings.Join(missing, "\n- "), text)

	reply, err := e.client.ChatText(ctx, e.model, SystemPromptGapFiller, prompt)
	if err != nil {
		return nil, fmt.Errorf("gap filling request failed: %w", err)
	}

	var resp LLMResponse
	if err := json.Unmarshal([]byte(ExtractJSON(reply)), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	return apply(inv, &resp), nil
}

func apply(inv *model.Invoice, resp *LLMResponse) []string {
	var filled []string
	for _, s := range textSlots(inv) {
		if strings.TrimSpace(model.Value(*s.dst)) != "" {
			continue
		}
		if v := strings.TrimSpace(s.src(resp)); v != "" {
			*s.dst = &v
			filled = append(filled, s.name)
		}
	}
	for _, s := range moneySlots(inv) {
		if s.dst.IsPresent() {
			continue
		}
		// unparseable amounts are dropped
		if m := s.src(resp); m.IsPresent() {
			if _, ok := m.Decimal(); ok {
				*s.dst = m
				filled = append(filled, s.name)
			}
		}
	}
	return filled
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
