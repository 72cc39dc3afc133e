package validator

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	money "github.com/Alphavirusboy/invoice-qc-service/internal/decimal"
	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
)

// Engine applies the rule catalogue to batches of invoices. It holds no per-batch
// state and is safe for concurrent use.
type Engine struct {
	allowed   map[string]struct{}
	tolerance decimal.Decimal
}

// Option configures the engine
type Option func(*Engine)

// WithAllowedCurrencies replaces the accepted currency codes
func WithAllowedCurrencies(codes []string) Option {
	return func(e *Engine) {
		e.allowed = model.CurrencySet(codes)
	}
}

// WithTolerance sets the absolute difference allowed when comparing amounts
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(e *Engine) {
		e.tolerance = tolerance.Abs()
	}
}

// New creates an engine with the default currencies and a 0.02 tolerance
func New(opts ...Option) *Engine {
	e := &Engine{
		allowed:   model.CurrencySet(model.DefaultCurrencies),
		tolerance: money.DefaultTolerance,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate checks every invoice in order. Results mirror the input order.
func (e *Engine) Validate(invoices []*model.Invoice) model.ValidationResponse {
	dups := duplicates(invoices)
	results := make([]model.InvoiceValidationResult, len(invoices))
	for i, inv := range invoices {
		results[i] = e.check(inv, dups[i])
	}
	return Summarize(results)
}

// ValidateParallel produces the same response as Validate. Duplicate detection runs
// sequentially over the whole batch first; the remaining rules run on up to workers goroutines.
func (e *Engine) ValidateParallel(ctx context.Context, invoices []*model.Invoice, workers int) (model.ValidationResponse, error) {
	dups := duplicates(invoices)
	results := make([]model.InvoiceValidationResult, len(invoices))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, inv := range invoices {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.check(inv, dups[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.ValidationResponse{}, err
	}
	return Summarize(results), nil
}

// duplicates flags second and later occurrences of a non-empty key
func duplicates(invoices []*model.Invoice) []bool {
	seen := make(map[model.InvoiceKey]struct{}, len(invoices))
	flags := make([]bool, len(invoices))
	for i, inv := range invoices {
		if inv == nil {
			continue
		}
		key := inv.Key()
		if key.IsEmpty() {
			continue
		}
		if _, ok := seen[key]; ok {
			flags[i] = true
			continue
		}
		seen[key] = struct{}{}
	}
	return flags
}

type moneyField struct {
	name  string
	value model.Money
}

func (e *Engine) check(inv *model.Invoice, duplicate bool) model.InvoiceValidationResult {
	if inv == nil {
		inv = &model.Invoice{}
	}
	errs := []string{}
	warnings := []string{}

	if duplicate {
		errs = append(errs, CodeDuplicate)
	}

	// completeness
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"invoice_number", inv.InvoiceNumber},
		{"invoice_date", inv.InvoiceDate},
		{"seller_name", inv.SellerName},
		{"buyer_name", inv.BuyerName},
	} {
		if blank(f.value) {
			errs = append(errs, MissingField(f.name))
		}
	}

	// dates
	invoiceTime, invoiceDateOK, bad := optionalDate(inv.InvoiceDate)
	if bad {
		errs = append(errs, CodeInvoiceDateFormat)
	}
	dueTime, dueDateOK, bad := optionalDate(inv.DueDate)
	if bad {
		errs = append(errs, CodeDueDateFormat)
	}
	if invoiceDateOK && dueDateOK && dueTime.Before(invoiceTime) {
		errs = append(errs, CodeDueBeforeInvoiceDate)
	}

	// currency
	if blank(inv.Currency) {
		errs = append(errs, CodeMissingCurrency)
	} else if _, ok := e.allowed[strings.TrimSpace(*inv.Currency)]; !ok {
		errs = append(errs, CodeUnknownCurrency)
	}

	// money format, then sign
	fields := []moneyField{
		{"net_total", inv.NetTotal},
		{"tax_amount", inv.TaxAmount},
		{"gross_total", inv.GrossTotal},
	}
	amounts := make([]decimal.NullDecimal, len(fields))
	for i, f := range fields {
		if !f.value.IsPresent() {
			continue
		}
		d, ok := f.value.Decimal()
		if !ok {
			errs = append(errs, NotNumeric(f.name))
			continue
		}
		amounts[i] = decimal.NewNullDecimal(money.Quantize(d))
	}
	for i, f := range fields {
		if amounts[i].Valid && !money.IsNonNegative(amounts[i].Decimal) {
			errs = append(errs, Negative(f.name))
		}
	}

	net, tax, gross := amounts[0], amounts[1], amounts[2]
	if net.Valid && tax.Valid && gross.Valid {
		if !money.ApproxEqual(net.Decimal.Add(tax.Decimal), gross.Decimal, e.tolerance) {
			errs = append(errs, CodeTotalsMismatch)
		}
	}

	// line items
	if len(inv.LineItems) > 0 {
		totals := make([]decimal.NullDecimal, 0, len(inv.LineItems))
		for _, li := range inv.LineItems {
			if li.LineTotal.Valid {
				totals = append(totals, decimal.NewNullDecimal(money.Quantize(li.LineTotal.Decimal)))
			}
		}
		sum := money.SumNull(totals)
		if net.Valid && !money.ApproxEqual(sum, net.Decimal, e.tolerance) {
			errs = append(errs, CodeLineItemsMismatch)
		}
		if money.IsPositive(sum) && (!net.Valid || net.Decimal.IsZero()) {
			warnings = append(warnings, CodeZeroNetWithItems)
		}
	}

	return model.InvoiceValidationResult{
		InvoiceID: inv.DisplayID(),
		IsValid:   len(errs) == 0,
		Errors:    errs,
		Warnings:  warnings,
	}
}

// Summarize reduces results into the batch summary in a single pass
func Summarize(results []model.InvoiceValidationResult) model.ValidationResponse {
	summary := model.ValidationSummary{
		TotalInvoices: len(results),
		ErrorCounts:   make(map[string]int),
	}
	for _, r := range results {
		if r.IsValid {
			summary.ValidInvoices++
		} else {
			summary.InvalidInvoices++
		}
		for _, code := range r.Errors {
			summary.ErrorCounts[code]++
		}
	}
	if results == nil {
		results = []model.InvoiceValidationResult{}
	}
	return model.ValidationResponse{Summary: summary, Results: results}
}

// optionalDate parses s when present. bad marks a present value that does not parse.
func optionalDate(s *string) (t time.Time, ok, bad bool) {
	if blank(s) {
		return time.Time{}, false, false
	}
	t, err := ParseDate(*s)
	if err != nil {
		return time.Time{}, false, true
	}
	return t, true, false
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

var defaultEngine = New()

// Validate checks invoices with the default engine
func Validate(invoices []*model.Invoice) model.ValidationResponse {
	return defaultEngine.Validate(invoices)
}
