package registry

import (
	"strings"

	"github.com/nairafolio/statement-ingest/internal/models"
)

// DetectBank identifies the bank from raw statement text using substring
// signatures. Banks are tried in registration order and the first match
// wins, so detection is deterministic even when several signatures could
// match. No match is a valid outcome: the generic identifier is returned
// and the pipeline proceeds with the generic field mapping.
func (r *Registry) DetectBank(rawText string) models.BankType {
	upper := strings.ToUpper(rawText)
	for _, b := range r.banks {
		for _, pattern := range b.detectPatterns {
			if strings.Contains(upper, pattern) {
				return b.id
			}
		}
	}
	return models.BankGeneric
}

// TypeHint returns a coarse transaction category suggested by the
// description, or "" when nothing matches. Callers must treat this as a
// hint only; the categorization service has the final say.
func (r *Registry) TypeHint(description string) string {
	upper := strings.ToUpper(description)
	for _, hint := range r.typeHints {
		for _, pattern := range hint.Patterns {
			if strings.Contains(upper, pattern) {
				return hint.Category
			}
		}
	}
	return ""
}
