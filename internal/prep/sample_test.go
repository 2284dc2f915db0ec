package prep

import (
	"fmt"
	"math"
	"testing"
)

func TestBalancedSample_FiftyFifty(t *testing.T) {
	t.Parallel()

	pool := makePool(10, 10)
	sample, warning := BalancedSample(pool, 0.5, 10, 42)

	if warning != "" {
		t.Fatalf("unexpected warning: %s", warning)
	}
	if len(sample) != 10 {
		t.Fatalf("sample len = %d, want 10", len(sample))
	}
	if got := countDialogue(sample); got != 5 {
		t.Errorf("dialogue count = %d, want 5", got)
	}
}

func TestBalancedSample_DeterministicUnderSeed(t *testing.T) {
	t.Parallel()

	pool := makePool(10, 10)
	left, _ := BalancedSample(pool, 0.5, 10, 42)
	right, _ := BalancedSample(pool, 0.5, 10, 42)

	if len(left) != len(right) {
		t.Fatalf("lengths differ: %d vs %d", len(left), len(right))
	}
	for i := range left {
		if left[i].ID != right[i].ID {
			t.Errorf("position %d differs: %s vs %s", i, left[i].ID, right[i].ID)
		}
	}
}

func TestBalancedSample_EmptyClassFallback(t *testing.T) {
	t.Parallel()

	pool := makePool(3, 0)
	sample, warning := BalancedSample(pool, 0.5, 10, 42)

	if len(sample) != 3 {
		t.Fatalf("sample len = %d, want 3", len(sample))
	}
	if warning == "" {
		t.Fatal("expected ratio warning for empty non-dialogue class")
	}
	if got := countDialogue(sample); got != 3 {
		t.Errorf("dialogue count = %d, want 3", got)
	}
}

func TestBalancedSample_ShortfallReassigned(t *testing.T) {
	t.Parallel()

	pool := makePool(3, 20)
	sample, warning := BalancedSample(pool, 0.5, 10, 7)

	if len(sample) != 10 {
		t.Fatalf("sample len = %d, want 10", len(sample))
	}
	if got := countDialogue(sample); got != 3 {
		t.Errorf("dialogue count = %d, want all 3 available", got)
	}
	if warning == "" {
		t.Fatal("expected warning for dialogue shortfall")
	}
}

func TestBalancedSample_RatioWithinTolerance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dialogue int
		other    int
		ratio    float64
		size     int
	}{
		{50, 50, 0.5, 20},
		{40, 60, 0.3, 25},
		{30, 30, 0.7, 17},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("%d_%d_r%.1f_n%d", tt.dialogue, tt.other, tt.ratio, tt.size), func(t *testing.T) {
			t.Parallel()
			pool := makePool(tt.dialogue, tt.other)
			sample, warning := BalancedSample(pool, tt.ratio, tt.size, 62)
			if warning != "" {
				t.Fatalf("unexpected warning: %s", warning)
			}
			got := float64(countDialogue(sample)) / float64(len(sample))
			tolerance := 1.0 / float64(len(sample))
			if math.Abs(got-tt.ratio) > tolerance {
				t.Errorf("dialogue share %.3f deviates from %.2f beyond %.3f", got, tt.ratio, tolerance)
			}
		})
	}
}

func TestBalancedSample_NoDuplicateIDs(t *testing.T) {
	t.Parallel()

	pool := makePool(15, 15)
	// Repeat the whole pool so duplicate IDs exist in the input.
	pool = append(pool, makePool(15, 15)...)

	sample, _ := BalancedSample(pool, 0.5, 30, 42)
	seen := make(map[string]bool, len(sample))
	for _, record := range sample {
		if seen[record.ID] {
			t.Fatalf("duplicate id in sample: %s", record.ID)
		}
		seen[record.ID] = true
	}
}

func TestBalancedSample_EmptyPool(t *testing.T) {
	t.Parallel()

	sample, warning := BalancedSample(nil, 0.5, 10, 42)
	if sample != nil || warning != "" {
		t.Fatalf("expected empty result, got %d records, warning %q", len(sample), warning)
	}
}

func makePool(dialogue int, other int) []Record {
	pool := make([]Record, 0, dialogue+other)
	for i := 0; i < dialogue; i++ {
		pool = append(pool, makeRecord(fmt.Sprintf("d%d", i), true))
	}
	for i := 0; i < other; i++ {
		pool = append(pool, makeRecord(fmt.Sprintf("o%d", i), false))
	}
	return pool
}

func makeRecord(id string, dialogue bool) Record {
	flag := dialogue
	return Record{
		ID:         id,
		Text:       "some sample text",
		SourceTag:  "test",
		IsDialogue: &flag,
	}
}

func countDialogue(records []Record) int {
	count := 0
	for _, record := range records {
		if record.Dialogue() {
			count++
		}
	}
	return count
}
