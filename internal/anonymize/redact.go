package anonymize

import (
	"github.com/crimson-sun/scrub/internal/config"
	"github.com/crimson-sun/scrub/internal/model"
)

// Redact replaces every match with a fixed token, optionally tagged with the
// entity type ("[PERSON]" instead of "[REDACTED]").
type Redact struct {
	token        string
	typeSpecific bool
}

// NewRedact builds the redact strategy.
func NewRedact(cfg config.RedactConfig) *Redact {
	token := cfg.Token
	if token == "" {
		token = "[REDACTED]"
	}
	return &Redact{token: token, typeSpecific: cfg.TypeSpecific}
}

func (r *Redact) Name() string { return "redact" }

func (r *Redact) Apply(m model.Match) (string, error) {
	if r.typeSpecific {
		return "[" + m.Type + "]", nil
	}
	return r.token, nil
}
