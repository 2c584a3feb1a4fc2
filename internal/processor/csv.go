package processor

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/crimson-sun/scrub/internal/config"
	"github.com/crimson-sun/scrub/internal/model"
	"github.com/crimson-sun/scrub/internal/pipeline"
)

// PipelineFactory builds one pipeline instance. Each CSV worker gets its
// own, so replacement caches stay worker-local and nothing is shared
// across goroutines.
type PipelineFactory func() (*pipeline.Pipeline, error)

// BatchSecondPass detects residual PII across many texts at once, with the
// detector's own concurrency bound.
type BatchSecondPass interface {
	DetectBatch(ctx context.Context, texts []string) ([][]model.Match, error)
}

// CSV anonymizes CSV files row by row across a worker pool. Output rows
// keep their input order. When a second-pass detector is set, workers run
// the first pass only and the residual detection is batched over all cells
// after the pool drains.
type CSV struct {
	factory  PipelineFactory
	second   BatchSecondPass
	workers  int
	columns  []string // header names to scrub; empty means every column
	cfg      config.Processing
	strategy string
}

// NewCSV creates a CSV processor. workers <= 0 selects GOMAXPROCS; second
// may be nil.
func NewCSV(factory PipelineFactory, second BatchSecondPass, workers int, columns []string, cfg config.Processing, strategy string) *CSV {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &CSV{factory: factory, second: second, workers: workers, columns: columns, cfg: cfg, strategy: strategy}
}

type rowJob struct {
	idx int
	row []string
}

// cellRun keeps one scrubbed cell's first-pass result for the batched
// second pass.
type cellRun struct {
	col int
	res *pipeline.Result
}

type rowOut struct {
	row         []string
	piiFound    int
	llmPIIFound int
	failed      bool
	cells       []cellRun
}

// Process anonymizes inputPath and writes the result next to it. A row
// that fails is written through unmodified and counted; the batch keeps
// going.
func (c *CSV) Process(ctx context.Context, inputPath string) (*model.CSVResult, error) {
	start := time.Now()
	res := &model.CSVResult{Success: true, InputPath: inputPath}
	defer func() { res.Elapsed = time.Since(start) }()

	f, err := os.Open(inputPath)
	if err != nil {
		res.Success = false
		res.Errors = append(res.Errors, err.Error())
		return res, fmt.Errorf("csv: %w", err)
	}
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	f.Close()
	if err != nil {
		res.Success = false
		res.Errors = append(res.Errors, err.Error())
		return res, fmt.Errorf("csv: %w", err)
	}
	if len(records) == 0 {
		return res, fmt.Errorf("csv: %s is empty", inputPath)
	}

	header, rows := records[0], records[1:]
	scrubCol := c.columnMask(header)

	workers := c.workers
	if workers > len(rows) && len(rows) > 0 {
		workers = len(rows)
	}
	res.WorkersUsed = workers

	jobs := make(chan rowJob)
	outs := make([]rowOut, len(rows))
	var failed atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pipe, err := c.factory()
			if err != nil {
				// Without a pipeline this worker can only pass rows through.
				slog.Error("csv worker init failed", "error", err)
				for job := range jobs {
					outs[job.idx] = rowOut{row: job.row, failed: true}
					failed.Add(1)
				}
				return
			}
			for job := range jobs {
				outs[job.idx] = c.processRow(ctx, pipe, job.row, scrubCol)
				if outs[job.idx].failed {
					failed.Add(1)
				}
			}
		}()
	}

	for i, row := range rows {
		jobs <- rowJob{idx: i, row: row}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		res.Success = false
		res.Errors = append(res.Errors, err.Error())
		return res, err
	}

	if c.second != nil {
		c.secondPass(ctx, res, outs)
	}

	for _, out := range outs {
		res.PIIFound += out.piiFound
		res.LLMPIIFound += out.llmPIIFound
	}
	res.RowsProcessed = len(rows)
	res.RowsFailed = int(failed.Load())

	if c.cfg.BackupOriginal {
		if err := copyFile(inputPath, inputPath+".bak"); err != nil {
			res.Success = false
			res.Errors = append(res.Errors, err.Error())
			return res, fmt.Errorf("csv: %w", err)
		}
	}

	outPath := c.outputPath(inputPath)
	if err := c.write(outPath, header, outs); err != nil {
		res.Success = false
		res.Errors = append(res.Errors, err.Error())
		return res, err
	}
	res.OutputPath = outPath

	slog.Info("csv processed",
		"input", inputPath,
		"rows", res.RowsProcessed,
		"rows_failed", res.RowsFailed,
		"pii_found", res.PIIFound,
		"workers", workers,
		"elapsed", res.Elapsed)
	return res, nil
}

// processRow runs the first pass over each selected cell. Any cell failure
// fails the whole row: the original row is preserved so no half-anonymized
// rows reach the output.
func (c *CSV) processRow(ctx context.Context, pipe *pipeline.Pipeline, row []string, scrubCol []bool) rowOut {
	out := rowOut{row: make([]string, len(row))}
	copy(out.row, row)

	for i, cell := range row {
		if i < len(scrubCol) && !scrubCol[i] {
			continue
		}
		if cell == "" {
			continue
		}
		run, err := pipe.FirstPass(ctx, cell)
		if err != nil {
			slog.Warn("csv row failed, keeping original", "error", err)
			copy(out.row, row)
			return rowOut{row: out.row, failed: true}
		}
		out.row[i] = run.Text
		out.piiFound += len(run.Matches)
		if c.second != nil {
			out.cells = append(out.cells, cellRun{col: i, res: run})
		}
	}
	return out
}

// secondPass runs residual detection over every scrubbed cell in one
// batch. Failures degrade with a warning; first-pass output is already
// safe to emit.
func (c *CSV) secondPass(ctx context.Context, res *model.CSVResult, outs []rowOut) {
	type cellRef struct {
		out  *rowOut
		cell cellRun
	}
	var texts []string
	var refs []cellRef
	for i := range outs {
		if outs[i].failed {
			continue
		}
		for _, cr := range outs[i].cells {
			texts = append(texts, cr.res.Text)
			refs = append(refs, cellRef{out: &outs[i], cell: cr})
		}
	}
	if len(texts) == 0 {
		return
	}

	found, err := c.second.DetectBatch(ctx, texts)
	if err != nil {
		// Per-text errors leave the other results usable; apply those.
		slog.Warn("csv second pass incomplete", "error", err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("second pass incomplete: %v", err))
	}
	if len(found) == 0 {
		return
	}

	applier, err := c.factory()
	if err != nil {
		slog.Warn("csv second pass skipped", "error", err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("second pass skipped: %v", err))
		return
	}
	for k, matches := range found {
		if len(matches) == 0 {
			continue
		}
		ref := refs[k]
		if err := applier.ApplySecondPass(ref.cell.res, matches); err != nil {
			slog.Warn("csv second pass cell failed", "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("second pass cell failed: %v", err))
			continue
		}
		ref.out.row[ref.cell.col] = ref.cell.res.Text
		ref.out.llmPIIFound += len(ref.cell.res.LLMMatches)
	}
}

// columnMask maps header names to a scrub yes/no per column index.
func (c *CSV) columnMask(header []string) []bool {
	mask := make([]bool, len(header))
	if len(c.columns) == 0 {
		for i := range mask {
			mask[i] = true
		}
		return mask
	}
	want := make(map[string]struct{}, len(c.columns))
	for _, name := range c.columns {
		want[name] = struct{}{}
	}
	for i, name := range header {
		_, mask[i] = want[name]
	}
	return mask
}

func (c *CSV) outputPath(inputPath string) string {
	return (&File{cfg: c.cfg}).OutputPath(inputPath)
}

func (c *CSV) write(path string, header []string, outs []rowOut) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("csv: %w", err)
	}
	for _, out := range outs {
		if err := w.Write(out.row); err != nil {
			f.Close()
			return fmt.Errorf("csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("csv: %w", err)
	}
	return f.Close()
}
