package model

import "time"

// GeneratedEmail is the output of one generation call. A new value replaces
// the previous one entirely; no history is kept.
type GeneratedEmail struct {
	ID          string
	Subject     string
	Body        string
	Text        string // Full text as produced by the engine, subject line included.
	Provenance  Provenance
	Status      string
	Notice      string // User-visible fallback or credential notice; empty when none.
	GeneratedAt time.Time
}

// IsAI reports whether the email came from an AI provider.
func (e GeneratedEmail) IsAI() bool {
	return e.Provenance == ProvenanceAI
}
