package prep

import (
	"strings"
	"unicode/utf8"

	"github.com/maybemkl/phonetics-annotation/internal/log"
)

// ValidateRecord checks the required-field constraints on one record.
// It returns nil for a valid record and a *ValidationError naming the
// offending field otherwise. Pure: no I/O, no mutation.
func ValidateRecord(record Record) *ValidationError {
	if strings.TrimSpace(record.ID) == "" {
		return &ValidationError{Field: "id", Reason: "must be non-empty"}
	}
	if strings.TrimSpace(record.Text) == "" {
		return &ValidationError{Field: "text", Reason: "must be non-empty"}
	}
	if !utf8.ValidString(record.Text) {
		return &ValidationError{Field: "text", Reason: "must be valid UTF-8"}
	}
	return nil
}

// ValidatePool validates every record, returning the surviving pool
// and the rejection count. Rejected records are logged and excluded,
// never fatal.
func ValidatePool(records []Record, logger *log.Logger) ([]Record, int) {
	pool := make([]Record, 0, len(records))
	rejected := 0
	for _, record := range records {
		if err := ValidateRecord(record); err != nil {
			rejected++
			logger.Warnf("rejecting record %q: %v", record.ID, err)
			continue
		}
		pool = append(pool, record)
	}
	return pool, rejected
}

// AnnotateDialogue fills in the is_dialogue flag for records that do
// not carry one, using the marker heuristic. Records with an explicit
// flag are left untouched.
func AnnotateDialogue(pool []Record) {
	for i := range pool {
		if pool[i].IsDialogue == nil {
			flag := ClassifyDialogue(pool[i].Text)
			pool[i].IsDialogue = &flag
		}
	}
}
