package models

import (
	"strings"
	"time"
)

// WordEntry represents a vocabulary pair being drilled
type WordEntry struct {
	SourceText          string     `json:"source_text"`
	TargetText          string     `json:"target_text"`
	AddedOn             time.Time  `json:"added_on"`
	WrongCount          int        `json:"wrong_count"`
	LastWrongDate       *time.Time `json:"last_wrong_date,omitempty"`
	RemediationProgress int        `json:"remediation_progress"`
}

// Key returns the identifier used for uniqueness checks
func (w WordEntry) Key() string {
	return WordKey(w.SourceText)
}

// WordKey normalizes a source text into its lookup key (trimmed, case-insensitive)
func WordKey(source string) string {
	return strings.ToLower(strings.TrimSpace(source))
}

// Severity describes how often a word has been missed
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SeverityFor buckets a wrong counter: 0 none, 1 low, 2 medium, 3+ high
func SeverityFor(wrongCount int) Severity {
	switch {
	case wrongCount >= 3:
		return SeverityHigh
	case wrongCount == 2:
		return SeverityMedium
	case wrongCount == 1:
		return SeverityLow
	default:
		return SeverityNone
	}
}
