package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/tsereda/declarant/internal/dictionary"
	"github.com/tsereda/declarant/internal/llm"
	"github.com/tsereda/declarant/internal/match"
	"github.com/tsereda/declarant/internal/model"
	"github.com/tsereda/declarant/internal/report"
)

// Pipeline orchestrates the complete report generation process
type Pipeline struct {
	renderer   *Renderer
	summarizer *llm.Summarizer // Optional LLM summarizer (nil if disabled)
	config     *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	// Create LLM summarizer if configured
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		llmConfig := llm.ConfigFromModel(cfg.LLM)
		s, err := llm.NewSummarizer(llmConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		summarizer: summarizer,
		config:     cfg,
	}
}

// RunResult contains the generated report plus the aggregates the
// renderers and summarizer need.
type RunResult struct {
	Report   model.Report
	Counts   model.PresenceCounts
	Promoted int // declarations promoted to "Yes" by dictionary matching
}

// Run executes the full sequence over already-decoded declarations:
// optional dictionary matching, then aggregation. A nil dictionary
// skips matching.
func (p *Pipeline) Run(ctx context.Context, declarations []model.SupplierDeclaration, dict *dictionary.Dictionary) (*RunResult, error) {
	// 1. Match unanswered declarations against the dictionary
	promoted := match.Apply(declarations, dict)

	// 2. Aggregate
	gen := report.NewGenerator(declarations)
	result := &RunResult{
		Report:   gen.Generate(),
		Counts:   gen.Counts(),
		Promoted: promoted,
	}

	return result, nil
}

// RunFiles loads a declarations CSV (and optionally a dictionary file)
// from disk and runs the pipeline over them.
func (p *Pipeline) RunFiles(ctx context.Context, csvPath, dictPath string) (*RunResult, error) {
	declarations, err := LoadDeclarations(csvPath)
	if err != nil {
		return nil, fmt.Errorf("load declarations: %w", err)
	}

	var dict *dictionary.Dictionary
	if dictPath != "" {
		dict, err = dictionary.FromFile(dictPath)
		if err != nil {
			return nil, fmt.Errorf("load dictionary: %w", err)
		}
	}

	return p.Run(ctx, declarations, dict)
}

// RenderReport renders the result to the configured outputs and, when
// a summarizer is enabled, writes the narrative summary to its own
// Markdown file. The summary never modifies the report document.
func (p *Pipeline) RenderReport(ctx context.Context, result *RunResult, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(result.Report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(result, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, result.Report, result.Counts)
		if err != nil {
			// Don't fail the run, just warn
			fmt.Fprintf(os.Stderr, "Warning: LLM summary generation failed: %v\n", err)
		} else if summary != nil {
			summaryPath := summaryMDPath(jsonPath, mdPath)
			if err := p.renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(summary), summaryPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to write LLM summary: %v\n", err)
			} else if verbose {
				fmt.Printf("✓ Wrote LLM Summary: %s\n", summaryPath)
			}
		}
	}

	p.renderer.RenderSummary(result)

	return nil
}

// summaryMDPath derives the side-file path for the LLM summary.
func summaryMDPath(jsonPath, mdPath string) string {
	base := mdPath
	if base == "" {
		base = jsonPath
	}
	for _, suffix := range []string{".md", ".json"} {
		if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
			base = base[:len(base)-len(suffix)]
			break
		}
	}
	return base + ".llm.md"
}
