package prep

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFormatTask(t *testing.T) {
	t.Parallel()

	dialogue := true
	record := Record{
		ID:         "r1",
		Text:       `"He wuz gwine," she said.`,
		SourceTag:  "gb",
		IsDialogue: &dialogue,
		Meta:       map[string]string{"author": "unknown", "source": "should lose"},
	}

	task := FormatTask(record)
	if task.Text != record.Text {
		t.Errorf("text = %q, want record text", task.Text)
	}
	if task.Meta["record_id"] != "r1" {
		t.Errorf("record_id = %v, want r1", task.Meta["record_id"])
	}
	if task.Meta["is_dialogue"] != true {
		t.Errorf("is_dialogue = %v, want true", task.Meta["is_dialogue"])
	}
	if task.Meta["source"] != "gb" {
		t.Errorf("reserved meta key must win: source = %v", task.Meta["source"])
	}
	if task.Meta["author"] != "unknown" {
		t.Errorf("author = %v, want carried from record meta", task.Meta["author"])
	}
}

func TestToMatchPatterns(t *testing.T) {
	t.Parallel()

	patterns := []Pattern{
		{SurfaceForm: "Gwine!", NormalizedForm: "gwine", Category: PatternPhonetic},
		{SurfaceForm: "banjo", NormalizedForm: "banjo", Category: PatternException},
	}

	matches := ToMatchPatterns(patterns)
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0].Label != "PHONETIC" || matches[1].Label != "EXCEPTION" {
		t.Errorf("labels = %s, %s", matches[0].Label, matches[1].Label)
	}
	if len(matches[0].Pattern) != 1 || matches[0].Pattern[0].Lower != "gwine" {
		t.Errorf("pattern tokens = %+v", matches[0].Pattern)
	}
}

func TestWriteTasks_ParseableRows(t *testing.T) {
	t.Parallel()

	sample := []Record{
		{ID: "r1", Text: `"Howdy," he said.`, SourceTag: "gemini"},
		{ID: "r2", Text: "De road wound on.", SourceTag: "gb"},
	}

	path := filepath.Join(t.TempDir(), "tasks.jsonl")
	skipped, err := WriteTasks(path, sample, discardLogger())
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	rows := 0
	for scanner.Scan() {
		rows++
		var task Task
		if err := json.Unmarshal(scanner.Bytes(), &task); err != nil {
			t.Fatalf("row %d does not parse: %v", rows, err)
		}
		if task.Text == "" {
			t.Errorf("row %d has empty text", rows)
		}
		if _, ok := task.Meta["is_dialogue"]; !ok {
			t.Errorf("row %d lacks is_dialogue meta", rows)
		}
	}
	if rows != 2 {
		t.Errorf("rows = %d, want 2", rows)
	}
}

func TestWriteMatchPatterns_ProdigyShape(t *testing.T) {
	t.Parallel()

	patterns := []Pattern{{SurfaceForm: "wuz", NormalizedForm: "wuz", Category: PatternPhonetic}}
	path := filepath.Join(t.TempDir(), "match.jsonl")
	if err := WriteMatchPatterns(path, patterns); err != nil {
		t.Fatalf("write: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := `{"label":"PHONETIC","pattern":[{"lower":"wuz"}]}` + "\n"
	if string(content) != want {
		t.Errorf("content = %q, want %q", content, want)
	}
}
