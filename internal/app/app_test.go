package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alphavirusboy/invoice-qc-service/internal/app"
	"github.com/Alphavirusboy/invoice-qc-service/internal/config"
	"github.com/Alphavirusboy/invoice-qc-service/internal/logging"
	"github.com/Alphavirusboy/invoice-qc-service/internal/model"
)

func TestNew_WithoutLLM(t *testing.T) {
	a := app.New(config.Default(), logging.Discard())

	require.NotNil(t, a.Pipeline)
	require.NotNil(t, a.Engine)
	assert.Nil(t, a.LLMClient)
}

func TestNew_WithLLM(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKey = "sk-test"

	a := app.New(cfg, logging.Discard())
	assert.NotNil(t, a.LLMClient)
}

func TestNew_AppliesValidationSettings(t *testing.T) {
	cfg := config.Default()
	cfg.Validation.AllowedCurrencies = []string{"chf"}
	cfg.Extraction.CurrencyFallback = "CHF"

	a := app.New(cfg, logging.Discard())

	result := a.Pipeline.ProcessText(context.Background(), "Invoice Number: 9\nSeller: Helvetia AG\nInvoice Date: 2024-01-05\nBuyer: B", "chf.txt")
	require.NoError(t, result.Error)
	assert.Equal(t, "CHF", model.Value(result.Invoice.Currency))

	resp := a.Engine.Validate([]*model.Invoice{result.Invoice})
	require.Len(t, resp.Results, 1)
	assert.NotContains(t, resp.Results[0].Errors, "format: currency_unknown")
}
