package prep

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/maybemkl/phonetics-annotation/internal/log"
)

// maxLineBytes bounds one JSONL line. Book-length samples stay well
// under this.
const maxLineBytes = 4 * 1024 * 1024

// ResolveInputs expands the configured sources into a sorted list of
// input file paths. A source path may be a single file or a directory
// root walked with include/exclude glob filtering.
func ResolveInputs(sources []SourceConfig) ([]string, error) {
	files := make([]string, 0)
	for _, source := range sources {
		info, err := os.Stat(source.Path)
		if err != nil {
			return nil, fmt.Errorf("stat source %s: %w", source.Name, err)
		}
		if !info.IsDir() {
			files = append(files, source.Path)
			continue
		}

		err = filepath.WalkDir(source.Path, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(source.Path, path)
			if err != nil {
				return fmt.Errorf("relative path for %s: %w", path, err)
			}
			rel = filepath.ToSlash(rel)
			if !matchesGlob(source.Include, rel) {
				return nil
			}
			if matchesGlob(source.Exclude, rel) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk source %s: %w", source.Name, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// matchesGlob returns true if path matches any of the given glob
// patterns. Patterns use '/' separators; '**' crosses directories.
func matchesGlob(patterns []string, path string) bool {
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			continue
		}
		if g.Match(path) || g.Match(filepath.Base(path)) {
			return true
		}
	}
	return false
}

// LoadRecords reads line-delimited JSON records from the given files.
// Unparseable and oversized lines are skipped and counted, never
// fatal; blank lines are ignored. Re-reading unchanged files yields identical records in
// identical order.
func LoadRecords(paths []string, logger *log.Logger) ([]Record, LoadStats, error) {
	records := make([]Record, 0)
	stats := LoadStats{}

	for _, path := range paths {
		fileRecords, err := loadFile(path, &stats, logger)
		if err != nil {
			return nil, stats, err
		}
		records = append(records, fileRecords...)
		stats.FilesRead++
	}
	return records, stats, nil
}

func loadFile(path string, stats *LoadStats, logger *log.Logger) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	logger.Printf("loading %s", path)

	records := make([]Record, 0)
	reader := bufio.NewReaderSize(file, 64*1024)

	lineNum := 0
	for {
		line, tooLong, err := readLine(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read input %s: %w", path, err)
		}
		lineNum++
		if tooLong {
			stats.LinesRead++
			stats.MalformedLines++
			logger.Warnf("%s:%d: skipping oversized line", path, lineNum)
			continue
		}
		trimmed := strings.TrimSpace(string(line))
		if trimmed == "" {
			continue
		}
		stats.LinesRead++

		var record Record
		if err := json.Unmarshal([]byte(trimmed), &record); err != nil {
			stats.MalformedLines++
			logger.Warnf("%s:%d: skipping malformed line: %v", path, lineNum, err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// readLine returns the next line. A line longer than maxLineBytes is
// drained and reported via the second return instead of failing the
// read, so one oversized record never costs the rest of the file.
func readLine(reader *bufio.Reader) ([]byte, bool, error) {
	var line []byte
	tooLong := false
	for {
		chunk, isPrefix, err := reader.ReadLine()
		if err != nil {
			return line, tooLong, err
		}
		if !tooLong {
			if len(line)+len(chunk) > maxLineBytes {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if !isPrefix {
			return line, tooLong, nil
		}
	}
}

// LoadExceptionTerms reads one lowercased term per line, skipping
// blank lines and '#' comments. Order is preserved and duplicates are
// dropped on first-seen basis.
func LoadExceptionTerms(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open exception terms %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	terms := make([]string, 0)
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		term := strings.ToLower(line)
		if seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read exception terms %s: %w", path, err)
	}
	return terms, nil
}
