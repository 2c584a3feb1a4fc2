// Package pipeline connects detection, anonymization, and the optional LLM
// second pass into a single text-in, text-out run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/scrub/internal/anonymize"
	"github.com/crimson-sun/scrub/internal/engine"
	"github.com/crimson-sun/scrub/internal/engine/reconcile"
	"github.com/crimson-sun/scrub/internal/model"
)

// SecondPass detects residual PII in already-anonymized text.
type SecondPass interface {
	Detect(ctx context.Context, text string) ([]model.Match, error)
}

// Result is the outcome of one pipeline run.
type Result struct {
	Text       string
	Matches    []model.Match // first-pass matches that were anonymized
	LLMMatches []model.Match // second-pass matches, if the pass ran
	Applied    []anonymize.Applied
	Warnings   []string
}

// Pipeline runs detect → anonymize, then optionally a second LLM pass over
// the anonymized text to catch what the rules and model missed.
type Pipeline struct {
	engine    *engine.Engine
	strategy  anonymize.Strategy
	second    SecondPass
	whitelist *Whitelist
	blacklist *Blacklist
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSecondPass enables the LLM residual pass.
func WithSecondPass(sp SecondPass) Option {
	return func(p *Pipeline) { p.second = sp }
}

// WithWhitelist exempts listed values from anonymization.
func WithWhitelist(w *Whitelist) Option {
	return func(p *Pipeline) { p.whitelist = w }
}

// WithBlacklist forces anonymization of matching values.
func WithBlacklist(b *Blacklist) Option {
	return func(p *Pipeline) { p.blacklist = b }
}

// New creates a Pipeline.
func New(eng *engine.Engine, strategy anonymize.Strategy, opts ...Option) *Pipeline {
	p := &Pipeline{engine: eng, strategy: strategy}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run anonymizes one text. The LLM pass sees only the already-anonymized
// text, never raw PII that the first pass caught.
func (p *Pipeline) Run(ctx context.Context, text string) (*Result, error) {
	res, err := p.FirstPass(ctx, text)
	if err != nil {
		return nil, err
	}
	if p.second == nil {
		return res, nil
	}

	llmMatches, err := p.second.Detect(ctx, res.Text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		// The first-pass output is already safe to emit.
		slog.Warn("second pass failed, keeping first-pass output", "error", err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("second pass failed: %v", err))
		return res, nil
	}
	if err := p.ApplySecondPass(res, llmMatches); err != nil {
		return nil, err
	}
	return res, nil
}

// FirstPass detects and anonymizes without the LLM pass. Detection runs over
// normalized text, but replacements splice into the original, so everything
// outside a match keeps its casing.
func (p *Pipeline) FirstPass(ctx context.Context, text string) (*Result, error) {
	res := &Result{}

	matches, err := p.engine.Detect(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("pipeline detect: %w", err)
	}

	if p.blacklist != nil {
		if forced := p.blacklist.Scan(p.engine.Normalize(text)); len(forced) > 0 {
			matches = reconcile.Reconcile(append(matches, forced...))
		}
	}
	// Normalization is length-preserving, so the offsets index the original
	// text too. Re-read the values from it before applying strategies.
	for i := range matches {
		matches[i].Value = text[matches[i].Start:matches[i].End]
	}
	if p.whitelist != nil {
		matches = p.whitelist.Filter(matches)
	}
	res.Matches = matches

	out, applied, err := anonymize.Batch(text, matches, p.strategy)
	if err != nil {
		return nil, fmt.Errorf("pipeline anonymize: %w", err)
	}
	res.Applied = applied
	res.Text = out
	return res, nil
}

// ApplySecondPass anonymizes residual matches located in res.Text. The
// matches usually come from an LLM detector, run per text by Run or batched
// by the CSV processor.
func (p *Pipeline) ApplySecondPass(res *Result, llmMatches []model.Match) error {
	llmMatches = p.engine.Filter(res.Text, llmMatches)
	if p.whitelist != nil {
		llmMatches = p.whitelist.Filter(llmMatches)
	}
	llmMatches = reconcile.Reconcile(llmMatches)
	res.LLMMatches = llmMatches

	out, applied, err := anonymize.Batch(res.Text, llmMatches, p.strategy)
	if err != nil {
		return fmt.Errorf("pipeline second pass anonymize: %w", err)
	}
	res.Applied = append(res.Applied, applied...)
	res.Text = out
	return nil
}
