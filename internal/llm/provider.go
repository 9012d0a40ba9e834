package llm

import (
	"context"
	"fmt"

	"github.com/tsereda/declarant/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a narrative summary of a report pack
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Report is the generated report pack to summarize
	Report model.Report

	// Counts are the normalized presence tallies for the same batch
	Counts model.PresenceCounts

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	// Summary is the generated summary text
	Summary string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// BuildPrompt constructs the default summarization prompt from report
// aggregates only. The LLM sees counters, never individual supplier
// rows, so confidential declaration content is not sent anywhere.
func BuildPrompt(report model.Report, counts model.PresenceCounts) string {
	prompt := fmt.Sprintf(`You are summarizing a PFAS supplier declaration report prepared for an EPA TSCA section 8(a)(7) submission.

CRITICAL RULES:
1. Describe only the aggregate numbers below. Do not invent supplier names, substances, or figures.
2. Do not give legal advice or state whether the filer is compliant.
3. If the response rate is low, say so plainly.
4. "Unknown" answers count as responses; note how many remain unresolved.

Report aggregates:
- Suppliers: %d
- Response rate: %.0f%%
- Answered Yes: %d
- Answered No: %d
- Answered Unknown: %d
- Free-form answers: %d
- Blank answers: %d

Provide a 3-4 sentence summary of response coverage and PFAS presence findings.`,
		report.Summary.SupplierCount,
		report.Summary.ResponseRate*100,
		counts.Yes, counts.No, counts.Unknown, counts.Other, counts.Blank)

	return prompt
}
