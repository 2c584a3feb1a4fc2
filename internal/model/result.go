package model

import "time"

// ProcessResult summarizes processing one file (or one text unit).
type ProcessResult struct {
	Success     bool
	InputPath   string
	OutputPath  string
	PIIFound    int // matches detected by pass 1
	LLMPIIFound int // additional matches from the LLM second pass
	Anonymized  int // matches actually rewritten
	Errors      []string
	Warnings    []string
	Elapsed     time.Duration
	Matches     []Match
}

// AddError records an error and marks the result failed.
func (r *ProcessResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Success = false
}

// AddWarning records a non-fatal warning.
func (r *ProcessResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// CSVResult summarizes a CSV batch run. A failed row never fails the batch;
// it is preserved unmodified and counted in RowsFailed.
type CSVResult struct {
	Success       bool
	InputPath     string
	OutputPath    string
	RowsProcessed int
	RowsFailed    int
	PIIFound      int
	LLMPIIFound   int
	WorkersUsed   int
	Elapsed       time.Duration
	Errors        []string
	Warnings      []string
}

// AuditEntry is a write-once record of a single anonymized span.
type AuditEntry struct {
	PIIType   string `json:"pii_type"`
	Position  int    `json:"position"`
	Strategy  string `json:"strategy"`
	Timestamp string `json:"timestamp"`
}

// AuditLog is the persisted audit artifact for one run.
type AuditLog struct {
	RunID           string       `json:"run_id"`
	Timestamp       string       `json:"timestamp"`
	Strategy        string       `json:"strategy"`
	TotalAnonymized int          `json:"total_anonymized"`
	Entries         []AuditEntry `json:"entries"`
}

// Timestamp returns the current UTC time in RFC 3339 format, the format
// used throughout audit records.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
