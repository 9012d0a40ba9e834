// Package match promotes unanswered PFAS declarations using the
// substance dictionary. Whether matching runs at all is the caller's
// decision: no dictionary supplied means the step is skipped entirely.
package match

import (
	"github.com/tsereda/declarant/internal/dictionary"
	"github.com/tsereda/declarant/internal/model"
)

// Apply scans the declarations and, for every one whose PFAS presence
// is case-insensitively "unknown", sets it to the literal "Yes" when
// the article description contains any dictionary identifier.
// Declarations already answered Yes or No (any casing) are never
// altered, and no other field is touched. Returns the number of
// declarations promoted.
//
// Running Apply twice with the same inputs is a no-op the second time:
// promoted declarations are no longer "unknown" and are skipped.
func Apply(declarations []model.SupplierDeclaration, dict *dictionary.Dictionary) int {
	if dict == nil {
		return 0
	}

	promoted := 0
	for i := range declarations {
		d := &declarations[i]
		if !model.IsPresenceUnknown(d.PFASPresence) {
			continue
		}
		if dict.MatchesDescription(d.ArticleDescription) {
			d.PFASPresence = model.PresenceYes
			promoted++
		}
	}
	return promoted
}
