package prep

import "strings"

// Extractor accumulates deduplicated phonetic patterns across a whole
// record pool. Dedup is global on the normalized form; when two
// surface forms normalize identically the first one seen in input
// order is retained, so re-running over the same input reproduces the
// same pattern set.
type Extractor struct {
	cfg      FilterConfig
	seen     map[string]struct{}
	patterns []Pattern
}

// NewExtractor returns an extractor for the given filter settings.
func NewExtractor(cfg FilterConfig) *Extractor {
	return &Extractor{
		cfg:      cfg,
		seen:     make(map[string]struct{}),
		patterns: make([]Pattern, 0),
	}
}

// ExtractFrom scans one validated record and accumulates any new
// phonetic patterns from its text.
func (e *Extractor) ExtractFrom(record Record) {
	for _, token := range strings.Fields(record.Text) {
		normalized := NormalizeToken(token)
		if !e.keep(normalized) {
			continue
		}
		e.seen[normalized] = struct{}{}
		e.patterns = append(e.patterns, Pattern{
			SurfaceForm:    token,
			NormalizedForm: normalized,
			Category:       PatternPhonetic,
		})
	}
}

func (e *Extractor) keep(normalized string) bool {
	if normalized == "" {
		return false
	}
	if len(normalized) < e.cfg.MinPatternLength || len(normalized) > e.cfg.MaxPatternLength {
		return false
	}
	if e.cfg.EnableStopwordFilter && isStopword(normalized) {
		return false
	}
	if _, ok := e.cfg.ExceptionTerms[normalized]; ok {
		return false
	}
	if _, ok := e.seen[normalized]; ok {
		return false
	}
	return true
}

// Patterns returns the accumulated phonetic patterns in first-seen
// input order.
func (e *Extractor) Patterns() []Pattern {
	return e.patterns
}

// ExceptionPatterns converts the configured exception terms into
// EXCEPTION-category pattern rows, deduplicated on normalized form,
// so the annotation tool can still highlight them distinctly.
func ExceptionPatterns(terms []string) []Pattern {
	seen := make(map[string]struct{}, len(terms))
	patterns := make([]Pattern, 0, len(terms))
	for _, term := range terms {
		normalized := NormalizeToken(term)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		patterns = append(patterns, Pattern{
			SurfaceForm:    term,
			NormalizedForm: normalized,
			Category:       PatternException,
		})
	}
	return patterns
}

// NormalizeToken lowercases a token and strips everything outside
// [a-z0-9]. The result is the dedup key for the pattern set.
func NormalizeToken(token string) string {
	lower := strings.ToLower(token)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
