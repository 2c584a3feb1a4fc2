package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/crimson-sun/scrub/internal/anonymize"
	"github.com/crimson-sun/scrub/internal/config"
	"github.com/crimson-sun/scrub/internal/engine"
	"github.com/crimson-sun/scrub/internal/engine/filter"
	"github.com/crimson-sun/scrub/internal/engine/ner"
	"github.com/crimson-sun/scrub/internal/engine/recognize"
	"github.com/crimson-sun/scrub/internal/llm"
	"github.com/crimson-sun/scrub/internal/logging"
	"github.com/crimson-sun/scrub/internal/pipeline"
	"github.com/crimson-sun/scrub/internal/processor"
)

const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", "", "path to YAML config file")
		input      = flag.String("input", "", "input file, directory, or CSV (required)")
		strategy   = flag.String("strategy", "", "anonymization strategy: redact, mask, replace, hash")
		threshold  = flag.Float64("threshold", -1, "confidence threshold (0..1)")
		entities   = flag.String("entities", "", "comma-separated entity types to detect (default all)")
		columns    = flag.String("columns", "", "comma-separated CSV columns to scrub (default all)")
		workers    = flag.Int("workers", 0, "CSV worker count (default GOMAXPROCS)")
		useLLM     = flag.Bool("llm", false, "enable the LLM second pass")
		noAudit    = flag.Bool("no-audit", false, "skip writing audit logs")
		backup     = flag.Bool("backup", false, "keep a .bak copy of each input")
		recursive  = flag.Bool("recursive", false, "descend into subdirectories in directory mode")
		logLevel   = flag.String("log-level", "", "log level: debug, info, warn, error")
	)
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "scrub: -input is required")
		flag.Usage()
		return exitError
	}

	cfg, err := config.Load(*configPath, cliOverrides(*strategy, *threshold, *useLLM, *noAudit, *backup, *recursive, *logLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "scrub: %v\n", err)
		return exitError
	}
	logging.Init(cfg.Logging.JSON, logging.ParseLevel(cfg.Logging.Level))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupted := false
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %v, shutting down...\n", sig)
		interrupted = true
		cancel()
	}()

	code := dispatch(ctx, cfg, *input, splitList(*entities), splitList(*columns), *workers)
	if interrupted {
		return exitInterrupted
	}
	return code
}

// cliOverrides builds the top config layer from explicitly set flags.
func cliOverrides(strategy string, threshold float64, useLLM, noAudit, backup, recursive bool, logLevel string) map[string]any {
	overrides := map[string]any{}
	if strategy != "" {
		overrides["anonymization"] = map[string]any{"strategy": strategy}
	}
	if threshold >= 0 {
		overrides["detection"] = map[string]any{"confidence_threshold": threshold}
	}
	if useLLM {
		overrides["llm_detection"] = map[string]any{"enabled": true}
	}
	processing := map[string]any{}
	if noAudit {
		processing["create_audit_log"] = false
	}
	if backup {
		processing["backup_original"] = true
	}
	if recursive {
		processing["recursive"] = true
	}
	if len(processing) > 0 {
		overrides["processing"] = processing
	}
	if logLevel != "" {
		overrides["logging"] = map[string]any{"level": logLevel}
	}
	return overrides
}

func dispatch(ctx context.Context, cfg config.Config, input string, entities, columns []string, workers int) int {
	oracle, err := loadOracle(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scrub: %v\n", err)
		return exitError
	}
	if oracle != nil {
		defer oracle.Close()
	}

	factory, detector, strategyName, err := pipelineFactory(cfg, entities, oracle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scrub: %v\n", err)
		return exitError
	}

	info, err := os.Stat(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scrub: %v\n", err)
		return exitError
	}

	switch {
	case info.IsDir():
		return runDir(ctx, cfg, factory, strategyName, input)
	case strings.EqualFold(filepath.Ext(input), ".csv"):
		return runCSV(ctx, cfg, factory, detector, strategyName, input, columns, workers)
	default:
		return runFile(ctx, cfg, factory, strategyName, input)
	}
}

// loadOracle builds the NER detector when enabled.
func loadOracle(cfg config.Config) (*ner.Oracle, error) {
	if !cfg.NER.Enabled {
		return nil, nil
	}
	return ner.New(cfg.NER.ModelPath, cfg.NER.VocabPath, nil, cfg.NER.ScoreThreshold)
}

// pipelineFactory returns a constructor for per-worker pipelines plus the
// shared LLM detector, nil when disabled. The recognizer, filter, and
// oracle are shared (all safe for concurrent use); each pipeline gets its
// own replacement cache.
func pipelineFactory(cfg config.Config, entities []string, oracle *ner.Oracle) (processor.PipelineFactory, *llm.Detector, string, error) {
	rec := recognize.New(recognize.DefaultRules(), cfg.Detection.ContextBoost, cfg.Detection.ContextWindow)
	flt := filter.New(cfg.Filter.ExtraFalsePositives, cfg.Filter.ReclassifySingleWord)

	var engOpts []engine.Option
	if oracle != nil {
		engOpts = append(engOpts, engine.WithOracle(oracle))
	}
	if len(entities) > 0 {
		engOpts = append(engOpts, engine.WithEntities(entities))
	} else if len(cfg.Detection.EnabledEntities) > 0 {
		engOpts = append(engOpts, engine.WithEntities(cfg.Detection.EnabledEntities))
	}
	eng := engine.New(rec, flt, cfg.Detection.ConfidenceThreshold, engOpts...)

	var pipeOpts []pipeline.Option
	whitelist, err := pipeline.NewWhitelist(cfg.Whitelist)
	if err != nil {
		return nil, nil, "", err
	}
	pipeOpts = append(pipeOpts, pipeline.WithWhitelist(whitelist))

	if len(cfg.Blacklist) > 0 {
		blacklist, err := pipeline.NewBlacklist(cfg.Blacklist)
		if err != nil {
			return nil, nil, "", err
		}
		pipeOpts = append(pipeOpts, pipeline.WithBlacklist(blacklist))
	}

	var detector *llm.Detector
	if cfg.LLM.Enabled {
		detector, err = llm.New(cfg.LLM)
		if err != nil {
			return nil, nil, "", err
		}
	}

	strategyName := cfg.Anonymization.Strategy
	factory := func() (*pipeline.Pipeline, error) {
		strategy := anonymize.New(cfg.Anonymization, anonymize.NewCache())
		opts := append([]pipeline.Option{}, pipeOpts...)
		if detector != nil {
			opts = append(opts, pipeline.WithSecondPass(detector))
		}
		return pipeline.New(eng, strategy, opts...), nil
	}
	return factory, detector, strategyName, nil
}

func runFile(ctx context.Context, cfg config.Config, factory processor.PipelineFactory, strategyName, input string) int {
	pipe, err := factory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "scrub: %v\n", err)
		return exitError
	}
	proc := processor.NewFile(pipe, cfg.Processing, strategyName)
	res, err := proc.Process(ctx, input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scrub: %v\n", err)
		return exitError
	}
	fmt.Printf("anonymized %s -> %s (%d PII found, %d rewritten, %s)\n",
		res.InputPath, res.OutputPath, res.PIIFound, res.Anonymized, res.Elapsed.Round(time.Millisecond))
	return exitOK
}

func runDir(ctx context.Context, cfg config.Config, factory processor.PipelineFactory, strategyName, input string) int {
	pipe, err := factory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "scrub: %v\n", err)
		return exitError
	}
	proc := processor.NewFile(pipe, cfg.Processing, strategyName)
	results, err := proc.ProcessDir(ctx, input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scrub: %v\n", err)
		return exitError
	}

	failed := 0
	totalPII := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
		totalPII += r.PIIFound
	}
	fmt.Printf("processed %d files (%d failed, %d PII found)\n", len(results), failed, totalPII)
	if failed > 0 {
		return exitError
	}
	return exitOK
}

func runCSV(ctx context.Context, cfg config.Config, factory processor.PipelineFactory, detector *llm.Detector, strategyName, input string, columns []string, workers int) int {
	// The CSV path batches the residual pass across all cells rather than
	// calling the detector per cell.
	var second processor.BatchSecondPass
	if detector != nil {
		second = detector
	}
	proc := processor.NewCSV(factory, second, workers, columns, cfg.Processing, strategyName)
	res, err := proc.Process(ctx, input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scrub: %v\n", err)
		return exitError
	}
	fmt.Printf("anonymized %s -> %s (%d rows, %d failed, %d PII found, %d workers)\n",
		res.InputPath, res.OutputPath, res.RowsProcessed, res.RowsFailed, res.PIIFound, res.WorkersUsed)
	if res.RowsFailed > 0 {
		return exitError
	}
	return exitOK
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
