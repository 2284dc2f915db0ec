package prep

import "strings"

// dialogueMarkers flag conversational speech in narrative prose.
// Quote characters catch quoted speech; the verbs catch attribution.
var dialogueMarkers = []string{
	`"`, "“", "”", "'",
	"said", "asked", "replied", "answered", "exclaimed",
}

// ClassifyDialogue reports whether the text looks like a dialogue
// record. Used only for records without an explicit is_dialogue flag.
func ClassifyDialogue(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range dialogueMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
