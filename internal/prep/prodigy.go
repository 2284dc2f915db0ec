package prep

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/maybemkl/phonetics-annotation/internal/log"
)

// Task is one Prodigy annotation task: the text under annotation plus
// a meta block the UI displays alongside it.
type Task struct {
	Text string         `json:"text"`
	Meta map[string]any `json:"meta"`
}

// MatchToken is one token of a Prodigy match pattern.
type MatchToken struct {
	Lower string `json:"lower"`
}

// MatchPattern is the pattern shape Prodigy's matcher consumes.
type MatchPattern struct {
	Label   string       `json:"label"`
	Pattern []MatchToken `json:"pattern"`
}

// FormatTask converts a sampled record into a Prodigy task. Record
// metadata is carried into the meta block; the reserved keys win on
// collision.
func FormatTask(record Record) Task {
	meta := map[string]any{
		"record_id":   record.ID,
		"source":      record.SourceTag,
		"is_dialogue": record.Dialogue(),
	}
	for key, value := range record.Meta {
		if _, reserved := meta[key]; reserved {
			continue
		}
		meta[key] = value
	}
	return Task{Text: record.Text, Meta: meta}
}

// ToMatchPatterns converts pattern rows into Prodigy match patterns,
// one single-token pattern per normalized form.
func ToMatchPatterns(patterns []Pattern) []MatchPattern {
	out := make([]MatchPattern, 0, len(patterns))
	for _, pattern := range patterns {
		out = append(out, MatchPattern{
			Label:   string(pattern.Category),
			Pattern: []MatchToken{{Lower: pattern.NormalizedForm}},
		})
	}
	return out
}

// WriteTasks writes sampled records as Prodigy tasks, one JSON object
// per line, preserving sample order. Unrepresentable records are
// skipped and counted like in WriteSample.
func WriteTasks(path string, sample []Record, logger *log.Logger) (int, error) {
	if err := ensureParentDir(path); err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create task output: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	skipped := 0
	for _, record := range sample {
		if serr := checkSerializable(record); serr != nil {
			skipped++
			logger.Warnf("%v", serr)
			continue
		}
		if err := encoder.Encode(FormatTask(record)); err != nil {
			return skipped, fmt.Errorf("encode task row: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return skipped, fmt.Errorf("flush task output: %w", err)
	}
	return skipped, nil
}

// WriteMatchPatterns writes Prodigy match patterns as JSONL.
func WriteMatchPatterns(path string, patterns []Pattern) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create match pattern output: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, pattern := range ToMatchPatterns(patterns) {
		if err := encoder.Encode(pattern); err != nil {
			return fmt.Errorf("encode match pattern row: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush match pattern output: %w", err)
	}
	return nil
}
