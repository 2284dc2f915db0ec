package prep

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/maybemkl/phonetics-annotation/internal/log"
)

// WriteSample writes sampled records as JSONL in sample order, one
// record object per line with is_dialogue always present. Records
// whose text cannot be represented in the output encoding are skipped,
// counted, and reported through the logger.
func WriteSample(path string, sample []Record, logger *log.Logger) (int, error) {
	if err := ensureParentDir(path); err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create sample output: %w", err)
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
		if record.IsDialogue == nil {
			flag := record.Dialogue()
			record.IsDialogue = &flag
		}
		if err := encoder.Encode(record); err != nil {
			return skipped, fmt.Errorf("encode sample row: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return skipped, fmt.Errorf("flush sample output: %w", err)
	}
	return skipped, nil
}

// WritePatterns writes pattern rows as JSONL, preserving input order.
// Rows with unrepresentable values are skipped and counted.
func WritePatterns(path string, patterns []Pattern, logger *log.Logger) (int, error) {
	if err := ensureParentDir(path); err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create pattern output: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	skipped := 0
	for _, pattern := range patterns {
		if !utf8.ValidString(pattern.SurfaceForm) {
			skipped++
			logger.Warnf("%v", &SerializationError{ID: pattern.NormalizedForm, Reason: "surface form is not valid UTF-8"})
			continue
		}
		if err := encoder.Encode(pattern); err != nil {
			return skipped, fmt.Errorf("encode pattern row: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return skipped, fmt.Errorf("flush pattern output: %w", err)
	}
	return skipped, nil
}

// WriteJSON writes an indented JSON document.
func WriteJSON(path string, value any) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}
	content, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	content = append(content, '\n')
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

func checkSerializable(record Record) *SerializationError {
	if !utf8.ValidString(record.Text) {
		return &SerializationError{ID: record.ID, Reason: "text is not valid UTF-8"}
	}
	for key, value := range record.Meta {
		if !utf8.ValidString(key) || !utf8.ValidString(value) {
			return &SerializationError{ID: record.ID, Reason: "metadata is not valid UTF-8"}
		}
	}
	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
