package processor

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/crimson-sun/scrub/internal/anonymize"
	"github.com/crimson-sun/scrub/internal/model"
)

// newAuditLog builds the audit record for one run. Entries carry positions
// and types only, never the original values.
func newAuditLog(strategy string, applied []anonymize.Applied) model.AuditLog {
	ts := model.Timestamp()
	log := model.AuditLog{
		RunID:           uuid.NewString(),
		Timestamp:       ts,
		Strategy:        strategy,
		TotalAnonymized: len(applied),
		Entries:         make([]model.AuditEntry, 0, len(applied)),
	}
	for _, a := range applied {
		log.Entries = append(log.Entries, model.AuditEntry{
			PIIType:   a.Match.Type,
			Position:  a.Match.Start,
			Strategy:  strategy,
			Timestamp: ts,
		})
	}
	return log
}

// writeAuditLog persists the audit record as indented JSON next to the
// anonymized output.
func writeAuditLog(path string, log model.AuditLog) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	return nil
}
