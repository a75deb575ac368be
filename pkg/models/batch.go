package models

// BatchResult reports the outcome of adding many words at once
type BatchResult struct {
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
