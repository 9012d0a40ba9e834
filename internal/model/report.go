package model

import "github.com/guregu/null/v5"

// Report is the aggregate report pack produced for one batch of
// declarations. The document has exactly two top-level keys so it
// round-trips through the submission tooling unchanged.
type Report struct {
	Summary      Summary             `json:"summary"`
	Declarations []MappedDeclaration `json:"declarations"` // input order preserved
}

// Summary holds the aggregate counters for a report.
type Summary struct {
	SupplierCount int     `json:"supplier_count"`
	ResponseRate  float64 `json:"response_rate"` // answered / max(count, 1)
}

// MappedDeclaration is one declaration with internal fields renamed to
// the EPA TSCA §8(a)(7) submission field names.
type MappedDeclaration struct {
	ReportingEntityName string      `json:"Reporting Entity Name"`
	ContactName         string      `json:"Contact Name"`
	Email               string      `json:"Email"`
	ArticleDescription  string      `json:"Article Description"`
	PFASPresence        string      `json:"PFAS Presence"`
	KRABasis            string      `json:"Known or Reasonably Ascertainable Basis"`
	Evidence            null.String `json:"Evidence"`
	CBIClaim            bool        `json:"CBI Claim"`
}

// PresenceCounts tallies declarations per normalized presence answer.
// Used for console output and LLM prompts, never serialized into the
// report document itself.
type PresenceCounts struct {
	Yes     int
	No      int
	Unknown int
	Other   int // free-form answers outside the canonical three
	Blank   int
}
