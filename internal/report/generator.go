// Package report aggregates supplier declarations into the report pack
// submitted to the EPA, mapping internal fields to the TSCA §8(a)(7)
// submission field names.
package report

import (
	"strings"

	"github.com/tsereda/declarant/internal/model"
)

// Generator computes the aggregate report for one declaration batch.
// It is stateless across calls; every Generate produces a fresh
// document from the current declaration values.
type Generator struct {
	declarations []model.SupplierDeclaration
}

// NewGenerator creates a generator over the given declarations.
// Input order is preserved in the output.
func NewGenerator(declarations []model.SupplierDeclaration) *Generator {
	return &Generator{declarations: declarations}
}

// ResponseRate returns the fraction of suppliers that provided any
// PFAS answer. The literal "Unknown" counts as an answer; only a blank
// field does not. The denominator falls back to 1 for an empty batch.
func (g *Generator) ResponseRate() float64 {
	answered := 0
	for _, d := range g.declarations {
		if model.IsPresenceAnswered(d.PFASPresence) {
			answered++
		}
	}
	total := len(g.declarations)
	if total == 0 {
		total = 1
	}
	return float64(answered) / float64(total)
}

// Counts tallies declarations per normalized presence answer.
func (g *Generator) Counts() model.PresenceCounts {
	var c model.PresenceCounts
	for _, d := range g.declarations {
		switch strings.ToLower(strings.TrimSpace(d.PFASPresence)) {
		case "yes":
			c.Yes++
		case "no":
			c.No++
		case "unknown":
			c.Unknown++
		case "":
			c.Blank++
		default:
			c.Other++
		}
	}
	return c
}

// Generate produces the report document. An empty batch yields a
// degenerate but well-formed report: zero suppliers, zero response
// rate, empty declarations list.
func (g *Generator) Generate() model.Report {
	mapped := make([]model.MappedDeclaration, 0, len(g.declarations))
	for _, d := range g.declarations {
		mapped = append(mapped, model.MappedDeclaration{
			ReportingEntityName: d.CompanyName,
			ContactName:         d.ContactName,
			Email:               d.Email,
			ArticleDescription:  d.ArticleDescription,
			PFASPresence:        d.PFASPresence,
			KRABasis:            d.KRABasis,
			Evidence:            d.Evidence,
			CBIClaim:            d.CBIClaim,
		})
	}

	return model.Report{
		Summary: model.Summary{
			SupplierCount: len(g.declarations),
			ResponseRate:  g.ResponseRate(),
		},
		Declarations: mapped,
	}
}
