package engine

import (
	"context"
	"log/slog"

	"github.com/crimson-sun/scrub/internal/engine/filter"
	"github.com/crimson-sun/scrub/internal/engine/normalize"
	"github.com/crimson-sun/scrub/internal/engine/recognize"
	"github.com/crimson-sun/scrub/internal/engine/reconcile"
	"github.com/crimson-sun/scrub/internal/model"
)

// Detector finds PII candidates in text. Implemented by the pattern
// recognizer and the NER oracle.
type Detector interface {
	Detect(ctx context.Context, text string) ([]model.Match, error)
}

// Engine orchestrates the normalize → detect → filter → reconcile pass.
// The oracle is optional; when it fails the engine degrades to rule-only
// detection rather than failing the document.
type Engine struct {
	recognizer *recognize.Recognizer
	oracle     Detector
	filter     *filter.Filter
	threshold  float64
	entities   map[string]struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithOracle attaches a model-based detector run alongside the rules.
func WithOracle(d Detector) Option {
	return func(e *Engine) { e.oracle = d }
}

// WithEntities restricts output to the given entity types. Empty means all.
func WithEntities(entities []string) Option {
	return func(e *Engine) {
		if len(entities) == 0 {
			return
		}
		e.entities = make(map[string]struct{}, len(entities))
		for _, ent := range entities {
			e.entities[ent] = struct{}{}
		}
	}
}

// New creates an Engine over the given recognizer and filter.
func New(rec *recognize.Recognizer, f *filter.Filter, threshold float64, opts ...Option) *Engine {
	e := &Engine{
		recognizer: rec,
		filter:     f,
		threshold:  threshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Normalize prepares text for detection. Length-preserving, so offsets into
// the normalized text are valid in the original.
func (e *Engine) Normalize(text string) string {
	return normalize.Caps(text)
}

// Filter drops false positives from matches found in text. Used by callers
// that bring their own matches, such as the LLM residual pass.
func (e *Engine) Filter(text string, matches []model.Match) []model.Match {
	return e.filter.Apply(text, matches)
}

// Detect runs the full detection pass over text and returns the final
// non-overlapping matches at or above the confidence threshold, sorted by
// start offset. Offsets index the normalized text, which has the same
// length as the input.
func (e *Engine) Detect(ctx context.Context, text string) ([]model.Match, error) {
	normalized := e.Normalize(text)

	matches, err := e.recognizer.Detect(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if e.oracle != nil {
		oracleMatches, err := e.oracle.Detect(ctx, normalized)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			slog.Warn("oracle detection failed, continuing with rules only", "error", err)
		} else {
			matches = append(matches, oracleMatches...)
		}
	}

	matches = e.filter.Apply(normalized, matches)
	matches = reconcile.Reconcile(matches)

	out := matches[:0]
	for _, m := range matches {
		if m.Confidence < e.threshold {
			continue
		}
		if e.entities != nil {
			if _, ok := e.entities[m.Type]; !ok {
				continue
			}
		}
		out = append(out, m)
	}
	return out, nil
}
