// Package filter removes false-positive detections and corrects entity
// types before reconciliation. Model-sourced matches over common support
// vocabulary (greetings, weekdays, product terms) are the dominant noise
// source, so the lexicon is checked before anything else.
package filter

import (
	"regexp"
	"strings"

	"github.com/crimson-sun/scrub/internal/model"
)

// skipEntities are model outputs that are never PII on their own.
var skipEntities = map[string]struct{}{
	"DATE_TIME": {},
	"CARDINAL":  {},
	"ORDINAL":   {},
	"QUANTITY":  {},
	"MONEY":     {},
	"PERCENT":   {},
}

// reclassifiable entity types can be corrected to PERSON when the
// surrounding text says so.
var reclassifiable = map[string]struct{}{
	"ORG": {},
	"LOC": {},
	"GPE": {},
	"FAC": {},
}

// titleBefore matches an honorific ending just before a name.
var titleBefore = regexp.MustCompile(`(?i)\b(?:mr|mrs|ms|miss|dr|prof|rev|sir|dame|lord|lady)\.?\s*$`)

var singleCapWord = regexp.MustCompile(`^[A-Z][a-z]{2,}$`)

// Filter drops false positives and reclassifies mislabelled matches.
type Filter struct {
	lexicon              map[string]struct{}
	reclassifySingleWord bool
}

// New builds a filter from the built-in lexicon plus any extra words.
func New(extra []string, reclassifySingleWord bool) *Filter {
	f := &Filter{
		lexicon:              make(map[string]struct{}, len(falsePositiveWords)+len(extra)),
		reclassifySingleWord: reclassifySingleWord,
	}
	for _, w := range falsePositiveWords {
		f.lexicon[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range extra {
		f.lexicon[strings.ToLower(w)] = struct{}{}
	}
	return f
}

// Apply filters matches against text. Rule-sourced matches pass through
// untouched; the lexicon and reclassification rules exist to clean up
// model output.
func (f *Filter) Apply(text string, matches []model.Match) []model.Match {
	out := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if m.Source == model.SourceRule {
			out = append(out, m)
			continue
		}
		if _, skip := skipEntities[m.Type]; skip {
			continue
		}
		if f.isFalsePositive(m) {
			continue
		}
		out = append(out, f.reclassify(text, m))
	}
	return out
}

// isFalsePositive checks the lexicon. PERSON matches are judged on their
// first word only: "Hi John Smith" is mis-tokenized model output where the
// greeting leaked into the span, and the whole span would never be listed.
// Every other entity type is dropped if any word of the span is listed.
func (f *Filter) isFalsePositive(m model.Match) bool {
	words := strings.Fields(m.Value)
	if len(words) == 0 {
		return true
	}
	if m.Type == "PERSON" {
		_, hit := f.lexicon[strings.ToLower(words[0])]
		return hit
	}
	for _, w := range words {
		if _, hit := f.lexicon[strings.ToLower(w)]; hit {
			return true
		}
	}
	return false
}

// reclassify corrects ORG/LOC style labels to PERSON when the evidence is
// strong: an honorific directly before the span, or (optionally) a lone
// capitalized word that reads like a surname.
func (f *Filter) reclassify(text string, m model.Match) model.Match {
	if _, ok := reclassifiable[m.Type]; !ok {
		return m
	}
	from := m.Start - 10
	if from < 0 {
		from = 0
	}
	if titleBefore.MatchString(text[from:m.Start]) {
		m.Type = "PERSON"
		return m
	}
	if f.reclassifySingleWord && singleCapWord.MatchString(m.Value) {
		m.Type = "PERSON"
	}
	return m
}
