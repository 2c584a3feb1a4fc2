package model

import "fmt"

// Source identifies which kind of detector produced a match.
type Source string

// Detector sources.
const (
	SourceRule Source = "rule" // pattern recognizer
	SourceNER  Source = "ner"  // statistical NER model
	SourceLLM  Source = "llm"  // LLM second pass
)

// Match is a detected candidate PII occurrence. Positions are byte offsets
// into the analyzed text, half-open: text[Start:End] == Value.
// Matches are value types and never mutated after construction; derived
// matches (e.g. reclassified ones) are new instances.
type Match struct {
	Type       string  // entity tag (EMAIL, PERSON, AU_PHONE, ...)
	Value      string  // matched substring
	Start      int
	End        int
	Confidence float64 // detection confidence in [0, 1]
	Source     Source
	Context    string // surrounding text snippet, for audit/debugging
}

// NewMatch constructs a validated Match. A malformed span (start >= end,
// negative positions, confidence outside [0,1]) indicates a detector bug,
// so construction fails rather than tolerating it.
func NewMatch(entityType, value string, start, end int, confidence float64, source Source) (Match, error) {
	if start < 0 || end < 0 {
		return Match{}, fmt.Errorf("model: match positions must be non-negative, got [%d, %d)", start, end)
	}
	if start >= end {
		return Match{}, fmt.Errorf("model: match start %d must be less than end %d", start, end)
	}
	if confidence < 0 || confidence > 1 {
		return Match{}, fmt.Errorf("model: match confidence must be in [0, 1], got %g", confidence)
	}
	return Match{
		Type:       entityType,
		Value:      value,
		Start:      start,
		End:        end,
		Confidence: confidence,
		Source:     source,
	}, nil
}

// Overlaps reports whether the two spans share at least one position.
func (m Match) Overlaps(o Match) bool {
	return !(m.End <= o.Start || m.Start >= o.End)
}

// Length returns the span length in bytes.
func (m Match) Length() int {
	return m.End - m.Start
}

// Snippet extracts the text surrounding a span, with the match bracketed.
// Used to fill Match.Context for audit output.
func Snippet(text string, start, end, window int) string {
	cs := start - window
	if cs < 0 {
		cs = 0
	}
	ce := end + window
	if ce > len(text) {
		ce = len(text)
	}
	return "..." + text[cs:start] + "[" + text[start:end] + "]" + text[end:ce] + "..."
}
