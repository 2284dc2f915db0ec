package prep

import (
	"io"
	"testing"

	"github.com/maybemkl/phonetics-annotation/internal/log"
)

func TestValidateRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		record    Record
		wantField string
	}{
		{name: "valid", record: Record{ID: "r1", Text: "he wuz gwine"}},
		{name: "missing id", record: Record{Text: "he wuz gwine"}, wantField: "id"},
		{name: "blank id", record: Record{ID: "   ", Text: "he wuz gwine"}, wantField: "id"},
		{name: "missing text", record: Record{ID: "r1"}, wantField: "text"},
		{name: "blank text", record: Record{ID: "r1", Text: " \t "}, wantField: "text"},
		{name: "invalid utf8", record: Record{ID: "r1", Text: "bad \xff byte"}, wantField: "text"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateRecord(tt.record)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Field != tt.wantField {
				t.Errorf("field = %q, want %q", err.Field, tt.wantField)
			}
		})
	}
}

func TestValidatePool_CountsRejections(t *testing.T) {
	t.Parallel()

	records := []Record{
		{ID: "r1", Text: "he wuz gwine"},
		{ID: "", Text: "no id"},
		{ID: "r3", Text: ""},
		{ID: "r4", Text: "dis here cabin"},
	}

	pool, rejected := ValidatePool(records, discardLogger())
	if len(pool) != 2 {
		t.Fatalf("pool len = %d, want 2", len(pool))
	}
	if rejected != 2 {
		t.Errorf("rejected = %d, want 2", rejected)
	}
	if pool[0].ID != "r1" || pool[1].ID != "r4" {
		t.Errorf("pool order changed: %s, %s", pool[0].ID, pool[1].ID)
	}
}

func TestAnnotateDialogue(t *testing.T) {
	t.Parallel()

	explicit := false
	pool := []Record{
		{ID: "r1", Text: `"Come along," she said.`},
		{ID: "r2", Text: "The road wound through the valley"},
		{ID: "r3", Text: `"Howdy," he said.`, IsDialogue: &explicit},
	}

	AnnotateDialogue(pool)

	if pool[0].IsDialogue == nil || !*pool[0].IsDialogue {
		t.Error("expected r1 classified as dialogue")
	}
	if pool[1].IsDialogue == nil || *pool[1].IsDialogue {
		t.Error("expected r2 classified as non-dialogue")
	}
	if *pool[2].IsDialogue {
		t.Error("explicit flag must not be overwritten")
	}
}

func discardLogger() *log.Logger {
	return &log.Logger{W: io.Discard}
}
