package prep

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultMinPatternLength = 3
	defaultMaxPatternLength = 30
	defaultDialogueRatio    = 0.5
	defaultSampleSize       = 1000
)

// SourceConfig names one input to load records from. Path is either a
// JSONL file or a directory root filtered by include/exclude globs.
type SourceConfig struct {
	Name    string   `yaml:"name" json:"name"`
	Path    string   `yaml:"path" json:"path"`
	Include []string `yaml:"include" json:"include"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// Config controls one pipeline run. Pointer fields distinguish an
// absent key from an explicit zero value.
type Config struct {
	MinPatternLength     int            `yaml:"min_pattern_length" json:"min_pattern_length"`
	MaxPatternLength     int            `yaml:"max_pattern_length" json:"max_pattern_length"`
	EnableStopwordFilter *bool          `yaml:"enable_stopword_filter" json:"enable_stopword_filter"`
	DialogueRatio        *float64       `yaml:"dialogue_ratio" json:"dialogue_ratio"`
	SampleSize           int            `yaml:"sample_size" json:"sample_size"`
	Seed                 *int64         `yaml:"seed" json:"seed"`
	ExceptionTerms       string         `yaml:"exception_terms" json:"exception_terms"`
	Sources              []SourceConfig `yaml:"sources" json:"sources"`
}

// LoadConfig loads a pipeline config from YAML and validates it.
// Relative paths are resolved against the config file's directory.
func LoadConfig(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config yaml: %w", err)
	}

	cfg.applyDefaults(filepath.Dir(path))
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) applyDefaults(configDir string) {
	if cfg.MinPatternLength == 0 {
		cfg.MinPatternLength = defaultMinPatternLength
	}
	if cfg.MaxPatternLength == 0 {
		cfg.MaxPatternLength = defaultMaxPatternLength
	}
	if cfg.EnableStopwordFilter == nil {
		enabled := true
		cfg.EnableStopwordFilter = &enabled
	}
	if cfg.DialogueRatio == nil {
		ratio := defaultDialogueRatio
		cfg.DialogueRatio = &ratio
	}
	if cfg.SampleSize == 0 {
		cfg.SampleSize = defaultSampleSize
	}

	if cfg.ExceptionTerms != "" && !filepath.IsAbs(cfg.ExceptionTerms) {
		cfg.ExceptionTerms = filepath.Join(configDir, cfg.ExceptionTerms)
	}
	for i := range cfg.Sources {
		if cfg.Sources[i].Path != "" && !filepath.IsAbs(cfg.Sources[i].Path) {
			cfg.Sources[i].Path = filepath.Join(configDir, cfg.Sources[i].Path)
		}
		if len(cfg.Sources[i].Include) == 0 {
			cfg.Sources[i].Include = []string{"*.jsonl", "**/*.jsonl"}
		}
	}
}

func (cfg Config) validate() error {
	if cfg.MinPatternLength < 1 {
		return fmt.Errorf("min_pattern_length must be >= 1")
	}
	if cfg.MaxPatternLength < cfg.MinPatternLength {
		return fmt.Errorf("max_pattern_length must be >= min_pattern_length")
	}
	if *cfg.DialogueRatio < 0 || *cfg.DialogueRatio > 1 {
		return fmt.Errorf("dialogue_ratio must be between 0 and 1")
	}
	if cfg.SampleSize < 1 {
		return fmt.Errorf("sample_size must be >= 1")
	}
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	seen := make(map[string]bool, len(cfg.Sources))
	for _, source := range cfg.Sources {
		if source.Name == "" {
			return fmt.Errorf("source name is required")
		}
		if seen[source.Name] {
			return fmt.Errorf("duplicate source name: %s", source.Name)
		}
		seen[source.Name] = true
		if source.Path == "" {
			return fmt.Errorf("source %s path is required", source.Name)
		}
	}
	return nil
}

// FilterConfig is the extractor's immutable view of the pattern
// settings, with the exception terms resolved from disk.
type FilterConfig struct {
	MinPatternLength     int
	MaxPatternLength     int
	EnableStopwordFilter bool
	ExceptionTerms       map[string]struct{}
}

// FilterConfig resolves the pattern-extraction settings, loading the
// exception term file when one is configured.
func (cfg Config) FilterConfig() (FilterConfig, []string, error) {
	filter := FilterConfig{
		MinPatternLength:     cfg.MinPatternLength,
		MaxPatternLength:     cfg.MaxPatternLength,
		EnableStopwordFilter: *cfg.EnableStopwordFilter,
		ExceptionTerms:       map[string]struct{}{},
	}

	if cfg.ExceptionTerms == "" {
		return filter, nil, nil
	}
	terms, err := LoadExceptionTerms(cfg.ExceptionTerms)
	if err != nil {
		return FilterConfig{}, nil, err
	}
	for _, term := range terms {
		filter.ExceptionTerms[term] = struct{}{}
	}
	return filter, terms, nil
}
