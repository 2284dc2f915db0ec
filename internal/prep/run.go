package prep

import (
	"time"

	"github.com/maybemkl/phonetics-annotation/internal/log"
)

// Run executes the full pipeline: load, validate, annotate dialogue
// flags, extract patterns, and draw the balanced sample. It returns
// *EmptyPoolError when zero records survive validation; every other
// per-record problem is counted in the report instead of failing the
// run. Output files are written by the caller.
func Run(cfg Config, logger *log.Logger) (RunOutput, error) {
	files, err := ResolveInputs(cfg.Sources)
	if err != nil {
		return RunOutput{}, err
	}
	records, stats, err := LoadRecords(files, logger)
	if err != nil {
		return RunOutput{}, err
	}

	pool, rejected := ValidatePool(records, logger)
	if len(pool) == 0 {
		return RunOutput{}, &EmptyPoolError{
			LinesRead:      stats.LinesRead,
			MalformedLines: stats.MalformedLines,
			Rejected:       rejected,
		}
	}
	AnnotateDialogue(pool)

	filter, exceptionTerms, err := cfg.FilterConfig()
	if err != nil {
		return RunOutput{}, err
	}
	extractor := NewExtractor(filter)
	for _, record := range pool {
		extractor.ExtractFrom(record)
	}
	patterns := extractor.Patterns()
	exceptions := ExceptionPatterns(exceptionTerms)

	seed := resolveSeed(cfg, logger)
	sample, warning := BalancedSample(pool, *cfg.DialogueRatio, cfg.SampleSize, seed)
	if warning != "" {
		logger.Warnf("%s", warning)
	}

	dialogueCount := 0
	for _, record := range pool {
		if record.Dialogue() {
			dialogueCount++
		}
	}
	sampledDialogue := 0
	for _, record := range sample {
		if record.Dialogue() {
			sampledDialogue++
		}
	}

	report := RunReport{
		FilesRead:         stats.FilesRead,
		LinesRead:         stats.LinesRead,
		MalformedLines:    stats.MalformedLines,
		Rejected:          rejected,
		Validated:         len(pool),
		DialogueCount:     dialogueCount,
		NonDialogueCount:  len(pool) - dialogueCount,
		Sampled:           len(sample),
		SampledDialogue:   sampledDialogue,
		PhoneticPatterns:  len(patterns),
		ExceptionPatterns: len(exceptions),
		RatioWarning:      warning,
		Seed:              seed,
	}

	return RunOutput{
		Sample:   sample,
		Patterns: append(patterns, exceptions...),
		Report:   report,
	}, nil
}

// resolveSeed returns the configured seed, or a time-derived one when
// the config omits it. The chosen seed lands in the report either way
// so any run can be reproduced after the fact.
func resolveSeed(cfg Config, logger *log.Logger) int64 {
	if cfg.Seed != nil {
		return *cfg.Seed
	}
	seed := time.Now().UnixNano()
	logger.Warnf("no seed configured: sampling with time-derived seed %d", seed)
	return seed
}
