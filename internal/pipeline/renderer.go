package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tsereda/declarant/internal/model"
)

// Renderer renders report packs to JSON, Markdown and the console.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report document to a file as indented JSON.
func (r *Renderer) RenderJSON(rep model.Report, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report pack as a Markdown document with a
// summary section and a declarations table.
func (r *Renderer) RenderMarkdown(result *RunResult, path string) error {
	var b strings.Builder

	b.WriteString("# PFAS Declaration Report\n\n")
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Suppliers:** %d\n", result.Report.Summary.SupplierCount)
	fmt.Fprintf(&b, "- **Response rate:** %.0f%%\n", result.Report.Summary.ResponseRate*100)
	fmt.Fprintf(&b, "- **Answers:** %d yes, %d no, %d unknown\n", result.Counts.Yes, result.Counts.No, result.Counts.Unknown)
	if result.Promoted > 0 {
		fmt.Fprintf(&b, "- **Dictionary matches:** %d declaration(s) promoted to Yes\n", result.Promoted)
	}
	b.WriteString("\n## Declarations\n\n")
	b.WriteString("| Reporting Entity Name | Contact Name | Email | Article Description | PFAS Presence | KRA Basis | Evidence | CBI Claim |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, d := range result.Report.Declarations {
		evidence := ""
		if d.Evidence.Valid {
			evidence = d.Evidence.String
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %t |\n",
			mdCell(d.ReportingEntityName), mdCell(d.ContactName), mdCell(d.Email),
			mdCell(d.ArticleDescription), mdCell(d.PFASPresence), mdCell(d.KRABasis),
			mdCell(evidence), d.CBIClaim)
	}

	if r.includeFooter {
		b.WriteString("\n---\n")
		b.WriteString("Generated by declarant. Field names follow the EPA TSCA §8(a)(7) submission layout.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderLLMMarkdown writes the separate LLM summary file.
func (r *Renderer) RenderLLMMarkdown(markdown string, path string) error {
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("write LLM markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short console summary to stderr.
func (r *Renderer) RenderSummary(result *RunResult) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Suppliers:      %d\n", result.Report.Summary.SupplierCount)
	fmt.Fprintf(os.Stderr, "  Response rate:  %.0f%%\n", result.Report.Summary.ResponseRate*100)
	fmt.Fprintf(os.Stderr, "  Yes / No:       %d / %d\n", result.Counts.Yes, result.Counts.No)
	fmt.Fprintf(os.Stderr, "  Unknown:        %d\n", result.Counts.Unknown)
	if result.Promoted > 0 {
		fmt.Fprintf(os.Stderr, "  Promoted:       %d (dictionary match)\n", result.Promoted)
	}
	fmt.Fprintf(os.Stderr, "\n")
}

// mdCell escapes pipe characters so free-form supplier text cannot
// break the table layout.
func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
