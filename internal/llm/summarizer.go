package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tsereda/declarant/internal/model"
)

// Summary is the optional LLM-generated narrative for a report pack.
// It is always written to its own file, never merged into the report
// document, whose shape is fixed for submission round-tripping.
type Summary struct {
	Enabled    bool     `json:"enabled"`
	Provider   string   `json:"provider,omitempty"`
	Model      string   `json:"model,omitempty"`
	SummaryMD  string   `json:"summary_md,omitempty"`
	TokensUsed int      `json:"tokens_used,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Summarizer wraps a provider and produces report summaries.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer from configuration. An empty
// provider name yields a disabled summarizer, not an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider's name, or "" when disabled.
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary produces a narrative summary of the report. A
// disabled summarizer returns (nil, nil). An unavailable provider
// returns a Summary carrying warnings rather than an error, so report
// generation itself never fails because of the LLM.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report, counts model.PresenceCounts) (*Summary, error) {
	if s.provider == nil {
		return nil, nil
	}

	if !s.provider.IsAvailable(ctx) {
		return &Summary{
			Enabled:  false,
			Provider: s.provider.Name(),
			Warnings: []string{fmt.Sprintf("provider %s is not available", s.provider.Name())},
		}, nil
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:    report,
		Counts:    counts,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	return &Summary{
		Enabled:    true,
		Provider:   s.provider.Name(),
		Model:      resp.Model,
		SummaryMD:  resp.Summary,
		TokensUsed: resp.TokensUsed,
	}, nil
}

// RenderSeparateMarkdown renders the summary as a standalone Markdown
// document.
func RenderSeparateMarkdown(summary *Summary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Report Summary (LLM-generated)\n\n")
	fmt.Fprintf(&b, "_Generated by %s/%s on %s. Narrative only; the report document is authoritative._\n\n",
		summary.Provider, summary.Model, time.Now().UTC().Format("2006-01-02"))
	b.WriteString(summary.SummaryMD)
	b.WriteString("\n")

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
