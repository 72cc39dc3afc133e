package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultTimeout = 120 * time.Second
)

// ModelGPT4oMini is the default model for gap filling
const ModelGPT4oMini = "openai/gpt-4o-mini"

// Client handles communication with OpenAI-compatible APIs
type Client struct {
	client       openai.Client
	defaultModel string
}

// ClientOption configures the client
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseURL      string
	timeout      time.Duration
	defaultModel string
}

// WithBaseURL sets a custom base URL
func WithBaseURL(url string) ClientOption {
	return func(cfg *clientConfig) {
		cfg.baseURL = url
	}
}

// WithTimeout sets custom HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(cfg *clientConfig) {
		cfg.timeout = timeout
	}
}

// WithDefaultModel sets the default model
func WithDefaultModel(model string) ClientOption {
	return func(cfg *clientConfig) {
		cfg.defaultModel = model
	}
}

// NewClient creates a new OpenAI-compatible client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	cfg := &clientConfig{
		baseURL:      DefaultBaseURL,
		timeout:      DefaultTimeout,
		defaultModel: ModelGPT4oMini,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(cfg.baseURL),
		option.WithHTTPClient(&http.Client{Timeout: cfg.timeout}),
		option.WithHeader("HTTP-Referer", "https://github.com/Alphavirusboy/invoice-qc-service"),
		option.WithHeader("X-Title", "Invoice QC Service"),
	}

	return &Client{
		client:       openai.NewClient(clientOpts...),
		defaultModel: cfg.defaultModel,
	}
}

// ChatText is a convenience method for text-only chat
func (c *Client) ChatText(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if model == "" {
		model = c.defaultModel
	}

	messages := []openai.ChatCompletionMessageParamUnion{}

	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}

	messages = append(messages, openai.UserMessage(userPrompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       model,
		Messages:    messages,
		MaxTokens:   param.NewOpt[int64](4096),
		Temperature: param.NewOpt[float64](0.1),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

// Model is one entry of the provider's model listing
type Model struct {
	ID      string
	OwnedBy string
	Created int64
}

// ListModels queries the /models endpoint
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	page, err := c.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models failed: %w", err)
	}

	models := make([]Model, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, Model{ID: m.ID, OwnedBy: m.OwnedBy, Created: m.Created})
	}
	return models, nil
}

// ExtractJSON pulls the JSON payload out of a model reply. Fenced code blocks win;
// otherwise the outermost object or array in the reply is returned.
func ExtractJSON(response string) string {
	if start := strings.Index(response, "```json"); start != -1 {
		start += len("```json")
		if end := strings.Index(response[start:], "```"); end != -1 {
			return strings.TrimSpace(response[start : start+end])
		}
	}

	if start := strings.Index(response, "```"); start != -1 {
		start += 3
		// language identifier
		if nl := strings.Index(response[start:], "\n"); nl != -1 {
			start += nl + 1
		}
		if end := strings.Index(response[start:], "```"); end != -1 {
			return strings.TrimSpace(response[start : start+end])
		}
	}

	response = strings.TrimSpace(response)
	start := strings.IndexAny(response, "{[")
	if start == -1 {
		return response
	}
	closing := "}"
	if response[start] == '[' {
		closing = "]"
	}
	if end := strings.LastIndex(response, closing); end > start {
		return response[start : end+1]
	}
	return response
}
