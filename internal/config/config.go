package config

import (
	"os"
	"strings"
)

// DeadlineEnv is the environment variable holding the statusline deadline.
const DeadlineEnv = "DEADLINE_TIME"

// Config holds process-wide configuration, resolved once at startup.
type Config struct {
	// LogPath is the audit log location, relative to the working directory
	// the host launches the hook in.
	LogPath string

	// Header is the CSV header row written when the log is first created.
	Header []string

	// DetailsMaxChars caps the details column of each audit row.
	DetailsMaxChars int

	// Deadline is the raw "HH:MM" value for the statusline countdown.
	// It is validated by the urgency package, which falls back to
	// DefaultDeadline on malformed input.
	Deadline string

	// DefaultDeadline is used when Deadline is absent or malformed.
	DefaultDeadline string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogPath:         ".claude/critical_log_changes.csv",
		Header:          []string{"timestamp", "tool", "file_path", "action", "details"},
		DetailsMaxChars: 200,
		Deadline:        "15:30",
		DefaultDeadline: "15:30",
	}
}

// Load returns the default configuration with DEADLINE_TIME applied.
// getenv is injectable for tests; nil means os.Getenv.
func Load(getenv func(string) string) *Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := DefaultConfig()
	if v := strings.TrimSpace(getenv(DeadlineEnv)); v != "" {
		cfg.Deadline = v
	}
	return cfg
}
