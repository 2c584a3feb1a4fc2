package recognize

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/crimson-sun/scrub/internal/model"
)

type compiledPattern struct {
	name  string
	re    *regexp.Regexp
	score float64
}

type compiledRule struct {
	entity   string
	patterns []compiledPattern
	context  []string
	validate func(string) bool
}

// Recognizer runs a compiled rule table over text and emits candidate
// matches. It is safe for concurrent use once constructed.
type Recognizer struct {
	rules  []compiledRule
	boost  float64
	window int
}

// New compiles the given rules. Patterns that fail to compile are logged and
// skipped rather than failing the whole table.
func New(rules []Rule, boost float64, window int) *Recognizer {
	r := &Recognizer{boost: boost, window: window}
	for _, rule := range rules {
		cr := compiledRule{
			entity:   rule.Entity,
			context:  lowerAll(rule.Context),
			validate: rule.Validate,
		}
		for _, p := range rule.Patterns {
			re, err := regexp.Compile(p.Regex)
			if err != nil {
				slog.Warn("skipping recognizer pattern",
					"entity", rule.Entity, "pattern", p.Name, "error", err)
				continue
			}
			cr.patterns = append(cr.patterns, compiledPattern{p.Name, re, p.Score})
		}
		if len(cr.patterns) > 0 {
			r.rules = append(r.rules, cr)
		}
	}
	return r
}

// Detect scans text with every rule and returns raw candidate matches.
// Scores are base pattern scores plus the context boost when a rule keyword
// appears shortly before the match. Matches failing a rule's checksum are
// dropped. Candidates are unfiltered and may overlap; reconciliation is the
// caller's job.
func (r *Recognizer) Detect(ctx context.Context, text string) ([]model.Match, error) {
	var out []model.Match
	lower := strings.ToLower(text)
	for _, rule := range r.rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, p := range rule.patterns {
			for _, loc := range p.re.FindAllStringIndex(text, -1) {
				value := text[loc[0]:loc[1]]
				if rule.validate != nil && !rule.validate(value) {
					continue
				}
				score := p.score
				if r.hasContext(lower, rule.context, loc[0]) {
					score += r.boost
					if score > 1.0 {
						score = 1.0
					}
				}
				m, err := model.NewMatch(rule.entity, value, loc[0], loc[1], score, model.SourceRule)
				if err != nil {
					return nil, err
				}
				out = append(out, m)
			}
		}
	}
	return out, nil
}

// hasContext reports whether any rule keyword occurs in the window of text
// immediately before the match.
func (r *Recognizer) hasContext(lower string, keywords []string, start int) bool {
	if len(keywords) == 0 {
		return false
	}
	// Lowercasing can shift byte offsets on non-ASCII text; clamp rather
	// than index past the end.
	if start > len(lower) {
		start = len(lower)
	}
	from := start - r.window
	if from < 0 {
		from = 0
	}
	window := lower[from:start]
	for _, kw := range keywords {
		if strings.Contains(window, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
