package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	LLM        LLMConfig        `yaml:"llm"`
	Validation ValidationConfig `yaml:"validation"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	Debug        bool          `yaml:"debug"`
}

// LLMConfig holds the OpenAI-compatible endpoint used for gap filling.
// An empty APIKey disables it.
type LLMConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Enabled reports whether an API key is configured
func (c LLMConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// ValidationConfig holds the validation engine settings
type ValidationConfig struct {
	AllowedCurrencies []string `yaml:"allowed_currencies"`
	Tolerance         string   `yaml:"tolerance"`
}

// ToleranceDecimal parses Tolerance
func (c ValidationConfig) ToleranceDecimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(c.Tolerance))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid tolerance %q: %w", c.Tolerance, err)
	}
	return d, nil
}

// ExtractionConfig holds the extraction pipeline settings
type ExtractionConfig struct {
	CurrencyFallback string        `yaml:"currency_fallback"`
	Workers          int           `yaml:"workers"`
	FileTimeout      time.Duration `yaml:"file_timeout"`
}

// LogConfig selects logger level and format
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			MaxBodyBytes: 32 << 20,
		},
		LLM: LLMConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			Model:   "openai/gpt-4o-mini",
			Timeout: 60 * time.Second,
		},
		Validation: ValidationConfig{
			AllowedCurrencies: []string{"EUR", "USD", "GBP", "INR"},
			Tolerance:         "0.02",
		},
		Extraction: ExtractionConfig{
			CurrencyFallback: "EUR",
			Workers:          4,
			FileTimeout:      2 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (when non-empty),
// then the .env file at envFile (when present), then the process environment.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		// godotenv never overrides variables already set in the environment
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("INVOICE_QC_ADDR", c.Server.Addr)
	c.Server.Debug = getEnvAsBool("INVOICE_QC_DEBUG", c.Server.Debug)
	c.Server.ReadTimeout = getEnvAsDuration("INVOICE_QC_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsDuration("INVOICE_QC_WRITE_TIMEOUT", c.Server.WriteTimeout)

	c.LLM.APIKey = getEnv("LLM_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = getEnv("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.Timeout = getEnvAsDuration("LLM_TIMEOUT", c.LLM.Timeout)

	if v := getEnv("INVOICE_QC_CURRENCIES", ""); v != "" {
		c.Validation.AllowedCurrencies = SplitList(v)
	}
	c.Validation.Tolerance = getEnv("INVOICE_QC_TOLERANCE", c.Validation.Tolerance)

	c.Extraction.CurrencyFallback = getEnv("INVOICE_QC_CURRENCY_FALLBACK", c.Extraction.CurrencyFallback)
	c.Extraction.Workers = getEnvAsInt("INVOICE_QC_WORKERS", c.Extraction.Workers)
	c.Extraction.FileTimeout = getEnvAsDuration("INVOICE_QC_FILE_TIMEOUT", c.Extraction.FileTimeout)

	c.Log.Level = getEnv("INVOICE_QC_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("INVOICE_QC_LOG_FORMAT", c.Log.Format)
}

// Validate checks values that would otherwise fail later at use
func (c *Config) Validate() error {
	if _, err := c.Validation.ToleranceDecimal(); err != nil {
		return err
	}
	if len(c.Validation.Currencies()) == 0 {
		return errors.New("allowed currencies must not be empty")
	}
	if c.Extraction.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Extraction.Workers)
	}
	return nil
}

// Currencies returns the allowed currency codes trimmed and upper-cased
func (c ValidationConfig) Currencies() []string {
	codes := make([]string, 0, len(c.AllowedCurrencies))
	for _, code := range c.AllowedCurrencies {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// SplitList splits a comma separated list, dropping blanks
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
