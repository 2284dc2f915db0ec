package prep

// PatternCategory labels one row in the pattern output set.
type PatternCategory string

// Pattern category constants.
const (
	PatternPhonetic  PatternCategory = "PHONETIC"
	PatternException PatternCategory = "EXCEPTION"
)

// Record is one normalized input row. IsDialogue is a pointer so the
// loader can distinguish an absent flag from an explicit false; the
// pipeline fills it in before sampling and it is always present in
// output rows.
type Record struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	SourceTag  string            `json:"source_tag,omitempty"`
	IsDialogue *bool             `json:"is_dialogue,omitempty"`
	Meta       map[string]string `json:"metadata,omitempty"`
}

// Dialogue reports whether the record is a dialogue record, falling
// back to the marker heuristic when no explicit flag is present.
func (r Record) Dialogue() bool {
	if r.IsDialogue != nil {
		return *r.IsDialogue
	}
	return ClassifyDialogue(r.Text)
}

// Pattern is one deduplicated phonetic-spelling entry. NormalizedForm
// is unique within an output set.
type Pattern struct {
	SurfaceForm    string          `json:"surface_form"`
	NormalizedForm string          `json:"normalized_form"`
	Category       PatternCategory `json:"category"`
}

// LoadStats counts loader-level outcomes across all input files.
type LoadStats struct {
	FilesRead      int `json:"files_read"`
	LinesRead      int `json:"lines_read"`
	MalformedLines int `json:"malformed_lines"`
}

// RunReport is the end-of-run summary written next to the outputs.
type RunReport struct {
	FilesRead          int    `json:"files_read"`
	LinesRead          int    `json:"lines_read"`
	MalformedLines     int    `json:"malformed_lines"`
	Rejected           int    `json:"rejected"`
	Validated          int    `json:"validated"`
	DialogueCount      int    `json:"dialogue_count"`
	NonDialogueCount   int    `json:"non_dialogue_count"`
	Sampled            int    `json:"sampled"`
	SampledDialogue    int    `json:"sampled_dialogue"`
	PhoneticPatterns   int    `json:"phonetic_patterns"`
	ExceptionPatterns  int    `json:"exception_patterns"`
	SerializationSkips int    `json:"serialization_skips"`
	RatioWarning       string `json:"ratio_warning,omitempty"`
	Seed               int64  `json:"seed"`
}

// RunOutput is the full output of one pipeline invocation.
type RunOutput struct {
	Sample   []Record
	Patterns []Pattern
	Report   RunReport
}
