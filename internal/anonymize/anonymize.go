// Package anonymize replaces detected PII spans in text. Four strategies:
// redact, mask, replace, hash. Strategy instances are cheap and scoped to a
// single run so replacement consistency never leaks across documents.
package anonymize

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/crimson-sun/scrub/internal/config"
	"github.com/crimson-sun/scrub/internal/model"
)

// Strategy produces the replacement text for one match.
type Strategy interface {
	Name() string
	Apply(m model.Match) (string, error)
}

// New builds the configured strategy. Unknown names fall back to redact,
// which never reveals the original value.
func New(cfg config.Anonymization, cache *Cache) Strategy {
	switch cfg.Strategy {
	case "", "redact":
		return NewRedact(cfg.Redact)
	case "mask":
		return NewMask(cfg.Mask)
	case "replace":
		return NewReplace(cfg.Replace, cache)
	case "hash":
		return NewHash(cfg.Hash)
	default:
		slog.Warn("unknown anonymization strategy, falling back to redact", "strategy", cfg.Strategy)
		return NewRedact(cfg.Redact)
	}
}

// Applied records one splice for audit purposes.
type Applied struct {
	Match       model.Match
	Replacement string
}

// Batch applies the strategy to every match and splices the replacements
// into text. Matches are processed in descending start order so earlier
// offsets stay valid while later spans are rewritten.
func Batch(text string, matches []model.Match, s Strategy) (string, []Applied, error) {
	if len(matches) == 0 {
		return text, nil, nil
	}

	sorted := make([]model.Match, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	applied := make([]Applied, 0, len(sorted))
	out := text
	for _, m := range sorted {
		if m.End > len(out) {
			return "", nil, fmt.Errorf("anonymize: match [%d, %d) outside text of length %d", m.Start, m.End, len(out))
		}
		repl, err := s.Apply(m)
		if err != nil {
			return "", nil, fmt.Errorf("anonymize: %s on %s: %w", s.Name(), m.Type, err)
		}
		out = out[:m.Start] + repl + out[m.End:]
		applied = append(applied, Applied{Match: m, Replacement: repl})
	}
	return out, applied, nil
}
