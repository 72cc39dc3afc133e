package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alphavirusboy/invoice-qc-service/internal/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available LLM models from API",
	Long: `Fetch and list available LLM models from the configured API endpoint.

This command queries the /models endpoint of your LLM provider. The model
used for gap filling is chosen with LLM_MODEL or --llm-model.`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintln(w, "----------------------")
	fmt.Fprintf(w, "  LLM_BASE_URL:     %s\n", orNotSet(cfg.LLM.BaseURL))
	fmt.Fprintf(w, "  LLM_MODEL:        %s\n", orNotSet(cfg.LLM.Model))
	fmt.Fprintf(w, "  LLM_API_KEY:      %s\n", maskKey(cfg.LLM.APIKey))
	fmt.Fprintln(w)

	a := newApp()
	if a.LLMClient == nil {
		fmt.Fprintln(w, "⚠️  LLM_API_KEY is required. Set it via environment variable or --api-key flag.")
		return nil
	}

	fmt.Fprintf(w, "Fetching models from %s/models...\n\n", strings.TrimSuffix(cfg.LLM.BaseURL, "/"))

	models, err := a.LLMClient.ListModels(cmd.Context())
	if err != nil {
		fmt.Fprintf(w, "⚠️  Could not fetch models: %v\n\n", err)
		fmt.Fprintln(w, "Tip: Your API provider may not support the /models endpoint.")
		fmt.Fprintln(w, "     You can still use a model by setting LLM_MODEL directly.")
		return nil
	}

	if len(models) == 0 {
		fmt.Fprintln(w, "No models returned from API.")
		return nil
	}

	return printModels(w, models)
}

func printModels(w io.Writer, models []llm.Model) error {
	sort.Slice(models, func(i, j int) bool {
		return models[i].ID < models[j].ID
	})

	fmt.Fprintf(w, "Available Models (%d):\n", len(models))
	fmt.Fprintln(w, "=====================")
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL ID\tOWNER\tCREATED")
	fmt.Fprintln(tw, "--------\t-----\t-------")

	for _, m := range models {
		created := ""
		if m.Created > 0 {
			created = time.Unix(m.Created, 0).UTC().Format("2006-01-02")
		}
		owner := m.OwnedBy
		if owner == "" {
			owner = inferProvider(m.ID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, owner, created)
	}
	return tw.Flush()
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func maskKey(key string) string {
	switch {
	case key == "":
		return "Not set"
	case len(key) > 8:
		return "Set (" + key[:8] + "...)"
	default:
		return "Set"
	}
}

// inferProvider tries to infer the provider from model ID
func inferProvider(modelID string) string {
	modelID = strings.ToLower(modelID)

	if prefix, _, ok := strings.Cut(modelID, "/"); ok && prefix != "" {
		return prefix
	}

	switch {
	case strings.Contains(modelID, "claude"):
		return "anthropic"
	case strings.Contains(modelID, "gpt"), strings.HasPrefix(modelID, "o1"):
		return "openai"
	case strings.Contains(modelID, "gemini"):
		return "google"
	case strings.Contains(modelID, "llama"):
		return "meta"
	case strings.Contains(modelID, "mistral"), strings.Contains(modelID, "mixtral"):
		return "mistral"
	case strings.Contains(modelID, "qwen"):
		return "alibaba"
	case strings.Contains(modelID, "deepseek"):
		return "deepseek"
	}

	return "-"
}
