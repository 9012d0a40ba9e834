package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tsereda/declarant/internal/model"
	"github.com/tsereda/declarant/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	dictPath    string
	timeout     time.Duration
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <csv>",
	Short: "Generate a report pack from a supplier declaration CSV",
	Long: `Report reads supplier declarations from a CSV file, optionally
matches unanswered declarations against a PFAS substance dictionary,
and writes a report pack with EPA submission field names.

Example:
  declarant report suppliers.csv
  declarant report suppliers.csv --pfas-dict pfas.txt --json report.json
  declarant report suppliers.csv --md report.md --llm openai`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	// Output flags
	reportCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	reportCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	reportCmd.Flags().StringVar(&dictPath, "pfas-dict", "", "optional PFAS substance dictionary (one CAS number or name per line)")
	reportCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout (matters only with --llm)")
	reportCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	reportCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	reportCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	reportCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runReport(cmd *cobra.Command, args []string) error {
	csvPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Declarations: %s\n", csvPath)
		if dictPath != "" {
			fmt.Fprintf(os.Stderr, "Dictionary:   %s\n", dictPath)
		}
		fmt.Fprintln(os.Stderr)
	}

	// Build configuration from flags
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		if err := configureLLM(cfg); err != nil {
			return err
		}
	}

	// Create pipeline
	p := pipeline.NewPipeline(cfg)

	result, err := p.RunFiles(ctx, csvPath, dictPath)
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Parsed %d declarations\n", result.Report.Summary.SupplierCount)
		if dictPath != "" {
			fmt.Fprintf(os.Stderr, "✓ Promoted %d declarations via dictionary match\n", result.Promoted)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(ctx, result, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// configureLLM fills cfg.LLM from flags and environment.
func configureLLM(cfg *model.Config) error {
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}
