package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alphavirusboy/invoice-qc-service/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "EUR", cfg.Extraction.CurrencyFallback)
	assert.False(t, cfg.LLM.Enabled())

	tol, err := cfg.Validation.ToleranceDecimal()
	require.NoError(t, err)
	assert.Equal(t, "0.02", tol.String())
	assert.Equal(t, []string{"EUR", "USD", "GBP", "INR"}, cfg.Validation.Currencies())
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  addr: ":9090"
  read_timeout: 5s
validation:
  allowed_currencies: [eur, " chf "]
  tolerance: "0.05"
extraction:
  workers: 8
log:
  level: debug
`)

	cfg, err := config.Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 8, cfg.Extraction.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"EUR", "CHF"}, cfg.Validation.Currencies())
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "server:\n  addr: \":9090\"\n")
	t.Setenv("INVOICE_QC_ADDR", ":7070")
	t.Setenv("INVOICE_QC_CURRENCIES", "USD, GBP")
	t.Setenv("INVOICE_QC_WORKERS", "not-a-number")
	t.Setenv("LLM_API_KEY", "sk-test")

	cfg, err := config.Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, []string{"USD", "GBP"}, cfg.Validation.AllowedCurrencies)
	assert.Equal(t, 4, cfg.Extraction.Workers)
	assert.True(t, cfg.LLM.Enabled())
}

func TestLoad_DotEnv(t *testing.T) {
	envFile := writeFile(t, ".env", "INVOICE_QC_LOG_FORMAT=json\n")
	t.Setenv("INVOICE_QC_LOG_FORMAT", "")
	os.Unsetenv("INVOICE_QC_LOG_FORMAT")

	cfg, err := config.Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	_, err := config.Load("", filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad tolerance", "validation:\n  tolerance: abc\n"},
		{"no currencies", "validation:\n  allowed_currencies: []\n"},
		{"zero workers", "extraction:\n  workers: 0\n"},
		{"malformed yaml", "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, "config.yaml", tt.yaml), "")
			assert.Error(t, err)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, config.SplitList(" a, ,b,"))
	assert.Empty(t, config.SplitList(""))
}
