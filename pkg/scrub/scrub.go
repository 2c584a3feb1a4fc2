package scrub

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/crimson-sun/scrub/internal/anonymize"
	"github.com/crimson-sun/scrub/internal/config"
	"github.com/crimson-sun/scrub/internal/engine"
	"github.com/crimson-sun/scrub/internal/engine/filter"
	"github.com/crimson-sun/scrub/internal/engine/ner"
	"github.com/crimson-sun/scrub/internal/engine/recognize"
	"github.com/crimson-sun/scrub/internal/model"
	"github.com/crimson-sun/scrub/internal/pipeline"
)

// Match is one detected PII span. Offsets are byte positions into the
// normalized input, half-open [Start, End).
type Match struct {
	Type       string
	Value      string
	Start      int
	End        int
	Confidence float64
}

// Scrub detects and anonymizes PII. Safe for concurrent use.
type Scrub struct {
	engine *engine.Engine
	pipe   *pipeline.Pipeline
	oracle *ner.Oracle
}

// New creates a Scrub instance. Without WithModelDir only the pattern
// recognizers run; with it, the NER model catches names and organizations
// the patterns cannot.
func New(opts ...Option) (*Scrub, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	rec := recognize.New(recognize.DefaultRules(), o.contextBoost, o.contextWindow)
	flt := filter.New(o.extraFalsePositives, o.reclassifySingleWord)

	var engOpts []engine.Option
	var oracle *ner.Oracle
	if o.modelDir != "" {
		var err error
		oracle, err = ner.New(
			filepath.Join(o.modelDir, "model.onnx"),
			filepath.Join(o.modelDir, "vocab.txt"),
			nil,
			o.confidenceThreshold,
		)
		if err != nil {
			return nil, fmt.Errorf("scrub: %w", err)
		}
		engOpts = append(engOpts, engine.WithOracle(oracle))
	}
	if len(o.entities) > 0 {
		engOpts = append(engOpts, engine.WithEntities(o.entities))
	}

	eng := engine.New(rec, flt, o.confidenceThreshold, engOpts...)

	strategy := anonymize.New(config.Anonymization{
		Strategy: o.strategy,
		Replace:  config.ReplaceConfig{Seed: o.replaceSeed, PreserveFormat: true},
		Hash:     config.HashConfig{Salt: o.hashSalt, Truncate: 8},
	}, anonymize.NewCache())

	var pipeOpts []pipeline.Option
	if len(o.whitelistEmails) > 0 || len(o.whitelistDomains) > 0 {
		w, err := pipeline.NewWhitelist(config.Whitelist{
			Emails:  o.whitelistEmails,
			Domains: o.whitelistDomains,
		})
		if err != nil {
			if oracle != nil {
				oracle.Close()
			}
			return nil, fmt.Errorf("scrub: %w", err)
		}
		pipeOpts = append(pipeOpts, pipeline.WithWhitelist(w))
	}

	return &Scrub{
		engine: eng,
		pipe:   pipeline.New(eng, strategy, pipeOpts...),
		oracle: oracle,
	}, nil
}

// Detect returns the PII spans found in text, sorted by position.
func (s *Scrub) Detect(ctx context.Context, text string) ([]Match, error) {
	found, err := s.engine.Detect(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("scrub: %w", err)
	}
	return fromModel(found), nil
}

// Anonymize rewrites every detected PII span in text using the configured
// strategy and returns the result.
func (s *Scrub) Anonymize(ctx context.Context, text string) (string, error) {
	res, err := s.pipe.Run(ctx, text)
	if err != nil {
		return "", fmt.Errorf("scrub: %w", err)
	}
	return res.Text, nil
}

// Close releases the NER model resources, if loaded.
func (s *Scrub) Close() error {
	if s.oracle != nil {
		return s.oracle.Close()
	}
	return nil
}

func fromModel(in []model.Match) []Match {
	out := make([]Match, len(in))
	for i, m := range in {
		out[i] = Match{
			Type:       m.Type,
			Value:      m.Value,
			Start:      m.Start,
			End:        m.End,
			Confidence: m.Confidence,
		}
	}
	return out
}
