package prep

import (
	"fmt"
	"math"
	"math/rand"
)

// BalancedSample draws up to size records from the pool so that the
// dialogue share matches the target ratio. Selection is without
// replacement from a seeded source, and the combined result is
// shuffled with the same source, so a given pool, ratio, size, and
// seed always produce the identical sample. When one class cannot
// supply its share the shortfall moves to the other class and the
// returned warning says so; an empty class is never fatal.
func BalancedSample(pool []Record, ratio float64, size int, seed int64) ([]Record, string) {
	if size <= 0 || len(pool) == 0 {
		return nil, ""
	}

	dialogue, other := partitionByDialogue(pool)

	warning := ""
	wantDialogue := 0
	wantOther := 0
	switch {
	case len(dialogue) == 0:
		wantOther = min(size, len(other))
		warning = fmt.Sprintf(
			"ratio %.2f unsatisfiable: no dialogue records, drawing %d non-dialogue records",
			ratio, wantOther,
		)
	case len(other) == 0:
		wantDialogue = min(size, len(dialogue))
		warning = fmt.Sprintf(
			"ratio %.2f unsatisfiable: no non-dialogue records, drawing %d dialogue records",
			ratio, wantDialogue,
		)
	default:
		effective := min(size, len(dialogue)+len(other))
		wantDialogue = int(math.Round(ratio * float64(effective)))
		wantOther = effective - wantDialogue
		if wantDialogue > len(dialogue) {
			wantDialogue = len(dialogue)
			wantOther = min(effective-wantDialogue, len(other))
			warning = fmt.Sprintf(
				"ratio %.2f unsatisfiable: only %d dialogue records available",
				ratio, len(dialogue),
			)
		}
		if wantOther > len(other) {
			wantOther = len(other)
			wantDialogue = min(effective-wantOther, len(dialogue))
			warning = fmt.Sprintf(
				"ratio %.2f unsatisfiable: only %d non-dialogue records available",
				ratio, len(other),
			)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	sample := make([]Record, 0, wantDialogue+wantOther)
	sample = append(sample, draw(rng, dialogue, wantDialogue)...)
	sample = append(sample, draw(rng, other, wantOther)...)
	rng.Shuffle(len(sample), func(i int, j int) {
		sample[i], sample[j] = sample[j], sample[i]
	})
	return sample, warning
}

// partitionByDialogue splits the pool into dialogue and non-dialogue
// classes, keeping only the first record for any repeated ID so no ID
// can appear twice in a sample.
func partitionByDialogue(pool []Record) (dialogue []Record, other []Record) {
	seen := make(map[string]bool, len(pool))
	for _, record := range pool {
		if seen[record.ID] {
			continue
		}
		seen[record.ID] = true
		if record.Dialogue() {
			dialogue = append(dialogue, record)
			continue
		}
		other = append(other, record)
	}
	return dialogue, other
}

// draw selects n records without replacement. A permutation over the
// whole slice drives every non-empty pick, so a given source state
// selects the same records for the same class size.
func draw(rng *rand.Rand, records []Record, n int) []Record {
	if n <= 0 {
		return nil
	}
	if n > len(records) {
		n = len(records)
	}
	picked := rng.Perm(len(records))[:n]
	out := make([]Record, 0, n)
	for _, idx := range picked {
		out = append(out, records[idx])
	}
	return out
}
