package bot

import (
	"time"
)

// Config represents the configuration for the bot
type Config struct {
	// Users allowed to talk to the bot; empty allows everyone
	AllowedUserIDs []int64
	// Long polling timeout in seconds
	UpdateTimeout int
	// Limit for downloading an uploaded spreadsheet
	DownloadTimeout time.Duration
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() Config {
	return Config{
		UpdateTimeout:   60,
		DownloadTimeout: 30 * time.Second,
	}
}
