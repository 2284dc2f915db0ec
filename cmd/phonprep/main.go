package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	flag "github.com/spf13/pflag"

	"github.com/maybemkl/phonetics-annotation/internal/log"
	"github.com/maybemkl/phonetics-annotation/internal/prep"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "phonprep: %v\n", err)
		os.Exit(2)
	}
}

const usageText = `Usage: phonprep <command> [flags]

Commands:
  run       Full workflow: load, validate, extract patterns, sample, write outputs
  patterns  Extract phonetic patterns only
  sample    Draw a balanced sample only
  prodigy   Reformat a sample JSONL into Prodigy tasks
  version   Print version and exit

Run 'phonprep <command> --help' for more information on a command.
`

func run(args []string) error {
	if len(args) == 0 {
		return usageError()
	}

	switch args[0] {
	case "run":
		return runFull(args[1:])
	case "patterns":
		return runPatterns(args[1:])
	case "sample":
		return runSample(args[1:])
	case "prodigy":
		return runProdigy(args[1:])
	case "version":
		printVersion()
		return nil
	case "--help", "-h":
		fmt.Fprint(os.Stderr, usageText)
		return nil
	default:
		return usageError()
	}
}

func printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("phonprep %s\n", version)
}

func runFull(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var (
		configPath string
		outDir     string
		prodigyOut bool
		verbose    bool
	)
	fs.StringVarP(&configPath, "config", "c", "", "path to pipeline config yaml")
	fs.StringVarP(&outDir, "out", "o", "", "output directory")
	fs.BoolVar(&prodigyOut, "prodigy", false, "also write Prodigy task and match-pattern files")
	fs.BoolVarP(&verbose, "verbose", "v", false, "verbose progress output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if configPath == "" || outDir == "" {
		return errors.New("run requires --config and --out")
	}

	logger := &log.Logger{Enabled: verbose, W: os.Stderr}
	cfg, err := prep.LoadConfig(configPath)
	if err != nil {
		return err
	}
	out, err := prep.Run(cfg, logger)
	if err != nil {
		return err
	}

	samplePath := filepath.Join(outDir, "sample.jsonl")
	patternsPath := filepath.Join(outDir, "patterns.jsonl")
	reportPath := filepath.Join(outDir, "report.json")

	sampleSkipped, err := prep.WriteSample(samplePath, out.Sample, logger)
	if err != nil {
		return err
	}
	patternSkipped, err := prep.WritePatterns(patternsPath, out.Patterns, logger)
	if err != nil {
		return err
	}
	out.Report.SerializationSkips = sampleSkipped + patternSkipped

	if prodigyOut {
		tasksPath := filepath.Join(outDir, "tasks.jsonl")
		matchPath := filepath.Join(outDir, "match-patterns.jsonl")
		if _, err := prep.WriteTasks(tasksPath, out.Sample, logger); err != nil {
			return err
		}
		if err := prep.WriteMatchPatterns(matchPath, out.Patterns); err != nil {
			return err
		}
		fmt.Printf("tasks:    %s\n", tasksPath)
		fmt.Printf("matches:  %s\n", matchPath)
	}

	if err := prep.WriteJSON(reportPath, out.Report); err != nil {
		return err
	}

	fmt.Printf("sample:   %s\n", samplePath)
	fmt.Printf("patterns: %s\n", patternsPath)
	fmt.Printf("report:   %s\n", reportPath)
	printSummary(out.Report)
	return nil
}

func runPatterns(args []string) error {
	fs := flag.NewFlagSet("patterns", flag.ContinueOnError)
	var (
		configPath  string
		outPath     string
		matchFormat bool
		verbose     bool
	)
	fs.StringVarP(&configPath, "config", "c", "", "path to pipeline config yaml")
	fs.StringVarP(&outPath, "out", "o", "", "path to write patterns jsonl")
	fs.BoolVar(&matchFormat, "match-format", false, "write Prodigy match-pattern format instead of the plain schema")
	fs.BoolVarP(&verbose, "verbose", "v", false, "verbose progress output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if configPath == "" || outPath == "" {
		return errors.New("patterns requires --config and --out")
	}

	logger := &log.Logger{Enabled: verbose, W: os.Stderr}
	cfg, err := prep.LoadConfig(configPath)
	if err != nil {
		return err
	}
	out, err := prep.Run(cfg, logger)
	if err != nil {
		return err
	}

	if matchFormat {
		if err := prep.WriteMatchPatterns(outPath, out.Patterns); err != nil {
			return err
		}
	} else {
		if _, err := prep.WritePatterns(outPath, out.Patterns, logger); err != nil {
			return err
		}
	}
	fmt.Printf("patterns: %s (%d phonetic, %d exception)\n",
		outPath, out.Report.PhoneticPatterns, out.Report.ExceptionPatterns)
	return nil
}

func runSample(args []string) error {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	var (
		configPath string
		outPath    string
		verbose    bool
	)
	fs.StringVarP(&configPath, "config", "c", "", "path to pipeline config yaml")
	fs.StringVarP(&outPath, "out", "o", "", "path to write sample jsonl")
	fs.BoolVarP(&verbose, "verbose", "v", false, "verbose progress output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if configPath == "" || outPath == "" {
		return errors.New("sample requires --config and --out")
	}

	logger := &log.Logger{Enabled: verbose, W: os.Stderr}
	cfg, err := prep.LoadConfig(configPath)
	if err != nil {
		return err
	}
	out, err := prep.Run(cfg, logger)
	if err != nil {
		return err
	}

	if _, err := prep.WriteSample(outPath, out.Sample, logger); err != nil {
		return err
	}
	fmt.Printf("sample: %s (%d records, %d dialogue)\n",
		outPath, out.Report.Sampled, out.Report.SampledDialogue)
	return nil
}

func runProdigy(args []string) error {
	fs := flag.NewFlagSet("prodigy", flag.ContinueOnError)
	var (
		inputPath string
		outPath   string
		verbose   bool
	)
	fs.StringVarP(&inputPath, "input", "i", "", "path to a sample jsonl file")
	fs.StringVarP(&outPath, "out", "o", "", "path to write Prodigy tasks jsonl")
	fs.BoolVarP(&verbose, "verbose", "v", false, "verbose progress output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if inputPath == "" || outPath == "" {
		return errors.New("prodigy requires --input and --out")
	}

	logger := &log.Logger{Enabled: verbose, W: os.Stderr}
	records, stats, err := prep.LoadRecords([]string{inputPath}, logger)
	if err != nil {
		return err
	}
	pool, rejected := prep.ValidatePool(records, logger)
	if len(pool) == 0 {
		return &prep.EmptyPoolError{
			LinesRead:      stats.LinesRead,
			MalformedLines: stats.MalformedLines,
			Rejected:       rejected,
		}
	}
	prep.AnnotateDialogue(pool)

	skipped, err := prep.WriteTasks(outPath, pool, logger)
	if err != nil {
		return err
	}
	fmt.Printf("tasks: %s (%d written, %d skipped)\n", outPath, len(pool)-skipped, skipped)
	return nil
}

func printSummary(report prep.RunReport) {
	fmt.Printf(
		"loaded %d lines (%d malformed, %d rejected), sampled %d of %d validated, %d patterns\n",
		report.LinesRead,
		report.MalformedLines,
		report.Rejected,
		report.Sampled,
		report.Validated,
		report.PhoneticPatterns+report.ExceptionPatterns,
	)
	if report.RatioWarning != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", report.RatioWarning)
	}
}

func usageError() error {
	return errors.New("usage: phonprep <run|patterns|sample|prodigy|version> [flags]")
}
