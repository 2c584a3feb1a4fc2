// Package processor applies the anonymization pipeline to files: plain text
// one at a time, CSV through a worker pool.
package processor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crimson-sun/scrub/internal/config"
	"github.com/crimson-sun/scrub/internal/model"
	"github.com/crimson-sun/scrub/internal/pipeline"
)

// textExtensions are the file types directory mode picks up.
var textExtensions = map[string]struct{}{
	".txt": {}, ".md": {}, ".log": {}, ".text": {},
}

// File processes plain-text files through the pipeline.
type File struct {
	pipe     *pipeline.Pipeline
	cfg      config.Processing
	strategy string
}

// NewFile creates a text file processor. strategy is recorded in audit
// logs.
func NewFile(p *pipeline.Pipeline, cfg config.Processing, strategy string) *File {
	return &File{pipe: p, cfg: cfg, strategy: strategy}
}

// OutputPath derives the anonymized file path: notes.txt becomes
// notes_anonymized.txt alongside the input.
func (f *File) OutputPath(inputPath string) string {
	suffix := f.cfg.OutputSuffix
	if suffix == "" {
		suffix = "_anonymized"
	}
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + suffix + ext
}

// Process anonymizes one file. I/O and pipeline failures are recorded on
// the result and returned; partial output is never written.
func (f *File) Process(ctx context.Context, inputPath string) (*model.ProcessResult, error) {
	start := time.Now()
	res := &model.ProcessResult{Success: true, InputPath: inputPath}
	defer func() { res.Elapsed = time.Since(start) }()

	data, err := os.ReadFile(inputPath)
	if err != nil {
		res.AddError(fmt.Sprintf("read: %v", err))
		return res, fmt.Errorf("processor: %w", err)
	}

	run, err := f.pipe.Run(ctx, string(data))
	if err != nil {
		res.AddError(fmt.Sprintf("pipeline: %v", err))
		return res, fmt.Errorf("processor: %w", err)
	}
	res.Matches = run.Matches
	res.PIIFound = len(run.Matches)
	res.LLMPIIFound = len(run.LLMMatches)
	res.Anonymized = len(run.Applied)
	res.Warnings = append(res.Warnings, run.Warnings...)

	if f.cfg.BackupOriginal {
		if err := copyFile(inputPath, inputPath+".bak"); err != nil {
			res.AddError(fmt.Sprintf("backup: %v", err))
			return res, fmt.Errorf("processor: %w", err)
		}
	}

	outPath := f.OutputPath(inputPath)
	if err := os.WriteFile(outPath, []byte(run.Text), 0o644); err != nil {
		res.AddError(fmt.Sprintf("write: %v", err))
		return res, fmt.Errorf("processor: %w", err)
	}
	res.OutputPath = outPath

	if f.cfg.CreateAuditLog {
		auditPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".audit.json"
		if err := writeAuditLog(auditPath, newAuditLog(f.strategy, run.Applied)); err != nil {
			// The anonymized output exists and is valid; a missing audit
			// log is a warning, not a failure.
			res.AddWarning(err.Error())
		}
	}

	slog.Info("file processed",
		"input", inputPath,
		"output", outPath,
		"pii_found", res.PIIFound,
		"elapsed", res.Elapsed)
	return res, nil
}

// ProcessDir anonymizes every text file under dir, descending into
// subdirectories when configured, skipping previous outputs and backups.
// Per-file failures are collected on their results; the walk continues.
func (f *File) ProcessDir(ctx context.Context, dir string) ([]*model.ProcessResult, error) {
	suffix := f.cfg.OutputSuffix
	if suffix == "" {
		suffix = "_anonymized"
	}

	var results []*model.ProcessResult
	walkErr := filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("processor: %w", err)
		}
		if entry.IsDir() {
			if path != dir && !f.cfg.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if _, ok := textExtensions[strings.ToLower(ext)]; !ok {
			return nil
		}
		if strings.HasSuffix(strings.TrimSuffix(name, ext), suffix) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := f.Process(ctx, path)
		if err != nil {
			slog.Error("file failed", "input", res.InputPath, "error", err)
		}
		results = append(results, res)
		return nil
	})
	if walkErr != nil {
		return results, walkErr
	}
	return results, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
