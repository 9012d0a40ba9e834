package model

import (
	"strings"

	"github.com/guregu/null/v5"
)

// Canonical PFAS presence answers. Raw supplier input is stored
// verbatim after trimming; these are only used for defaults, for the
// matcher's promotion target, and for normalized comparisons.
const (
	PresenceYes     = "Yes"
	PresenceNo      = "No"
	PresenceUnknown = "Unknown"
)

// SupplierDeclaration is one supplier's per-article statement about
// PFAS content, following the streamlined form for article importers.
type SupplierDeclaration struct {
	CompanyName        string      `json:"company_name"`
	ContactName        string      `json:"contact_name"`
	Email              string      `json:"email"`
	ArticleDescription string      `json:"article_description"`
	PFASPresence       string      `json:"pfas_presence"` // Yes / No / Unknown (free-form on write)
	KRABasis           string      `json:"kra_basis"`
	Evidence           null.String `json:"evidence"`
	CBIClaim           bool        `json:"cbi_claim"`
}

// cbiTruthy is the set of raw values that count as a CBI claim.
var cbiTruthy = map[string]bool{
	"true": true,
	"yes":  true,
	"1":    true,
}

// DeclarationFromRow builds a declaration from one decoded CSV row
// (header name → raw value). Missing or blank columns default rather
// than fail: strict validation is a caller's pre-pass, not ours.
func DeclarationFromRow(row map[string]string) SupplierDeclaration {
	presence := strings.TrimSpace(row["PFAS Presence"])
	if presence == "" {
		presence = PresenceUnknown
	}

	evidence := null.String{}
	if v := strings.TrimSpace(row["Evidence"]); v != "" {
		evidence = null.StringFrom(v)
	}

	return SupplierDeclaration{
		CompanyName:        strings.TrimSpace(row["Company Name"]),
		ContactName:        strings.TrimSpace(row["Contact Name"]),
		Email:              strings.TrimSpace(row["Email Address"]),
		ArticleDescription: strings.TrimSpace(row["Article Description"]),
		PFASPresence:       presence,
		KRABasis:           strings.TrimSpace(row["Known or Reasonably Ascertainable Basis"]),
		Evidence:           evidence,
		CBIClaim:           cbiTruthy[strings.ToLower(strings.TrimSpace(row["CBI Claim"]))],
	}
}

// IsPresenceUnknown reports whether a presence value means "unknown",
// compared case-insensitively after trimming. All presence comparisons
// in the parser, matcher and aggregator go through these helpers so
// the three stages cannot drift apart.
func IsPresenceUnknown(presence string) bool {
	return strings.EqualFold(strings.TrimSpace(presence), PresenceUnknown)
}

// IsPresenceAnswered reports whether the supplier answered the PFAS
// presence question at all. Any non-blank value counts, including the
// literal "Unknown".
func IsPresenceAnswered(presence string) bool {
	return strings.TrimSpace(presence) != ""
}
