// Package config carries the explicit, immutable pipeline configuration.
// The value is built once at startup (the CLI reads it from viper) and
// passed down; nothing in the pipeline reads process-wide state.
package config

import (
	"os"
	"path/filepath"
)

// Config is the pipeline configuration.
type Config struct {
	// DBPath is the canonical store file.
	DBPath string
	// BackupDir receives pre-commit store snapshots.
	BackupDir string
	// ReportDir receives dry-run HTML reports.
	ReportDir string
	// LogLevel is debug, info, warn or error.
	LogLevel string
	// LogFormat is console or json.
	LogFormat string
	// MaxReportRows caps per-section detail lines in the HTML report.
	MaxReportRows int
}

// Default returns the configuration used when nothing is configured.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".local", "share", "naryad")
	return Config{
		DBPath:        filepath.Join(base, "naryad.db"),
		BackupDir:     filepath.Join(base, "backups"),
		ReportDir:     filepath.Join(base, "reports"),
		LogLevel:      "info",
		LogFormat:     "console",
		MaxReportRows: 50,
	}
}
