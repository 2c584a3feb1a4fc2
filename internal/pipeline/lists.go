package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/crimson-sun/scrub/internal/config"
	"github.com/crimson-sun/scrub/internal/model"
)

// Whitelist exempts known-safe values from anonymization: service desk
// addresses, the company's own domains, and operator-supplied patterns.
type Whitelist struct {
	emails   map[string]struct{}
	domains  map[string]struct{}
	patterns []*regexp.Regexp
}

// NewWhitelist compiles the whitelist config. A bad pattern is an error;
// silently dropping one would anonymize values the operator listed as safe,
// which is the wrong direction to fail.
func NewWhitelist(cfg config.Whitelist) (*Whitelist, error) {
	w := &Whitelist{
		emails:  make(map[string]struct{}, len(cfg.Emails)),
		domains: make(map[string]struct{}, len(cfg.Domains)),
	}
	for _, e := range cfg.Emails {
		w.emails[strings.ToLower(e)] = struct{}{}
	}
	for _, d := range cfg.Domains {
		w.domains[strings.ToLower(d)] = struct{}{}
	}
	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("whitelist pattern %q: %w", p, err)
		}
		w.patterns = append(w.patterns, re)
	}
	return w, nil
}

// Filter drops whitelisted matches.
func (w *Whitelist) Filter(matches []model.Match) []model.Match {
	out := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if !w.allowed(m) {
			out = append(out, m)
		}
	}
	return out
}

func (w *Whitelist) allowed(m model.Match) bool {
	value := strings.ToLower(strings.TrimSpace(m.Value))
	if _, ok := w.emails[value]; ok {
		return true
	}
	if at := strings.LastIndexByte(value, '@'); at >= 0 {
		if _, ok := w.domains[value[at+1:]]; ok {
			return true
		}
	}
	for _, re := range w.patterns {
		if re.MatchString(m.Value) {
			return true
		}
	}
	return false
}

// Blacklist forces anonymization of operator-listed patterns the detectors
// would not flag on their own (internal account formats, project codenames).
type Blacklist struct {
	patterns []*regexp.Regexp
}

// NewBlacklist compiles the blacklist patterns.
func NewBlacklist(patterns []string) (*Blacklist, error) {
	b := &Blacklist{}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("blacklist pattern %q: %w", p, err)
		}
		b.patterns = append(b.patterns, re)
	}
	return b, nil
}

// Scan returns a forced match for every blacklist hit. Confidence is fixed
// near the top of the scale so reconciliation keeps blacklist hits over
// overlapping detector matches.
func (b *Blacklist) Scan(text string) []model.Match {
	var out []model.Match
	for _, re := range b.patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			m, err := model.NewMatch("CUSTOM", text[loc[0]:loc[1]], loc[0], loc[1], 0.99, model.SourceRule)
			if err != nil {
				continue
			}
			out = append(out, m)
		}
	}
	return out
}
