// internal/appconfig/appconfig.go
// Package appconfig defines the tool settings and applies their defaults.
// The CLI reads the settings file through viper; this package carries the
// typed snapshot other packages consume.
package appconfig

import (
	"strings"
)

const (
	// DefaultConfigPath is the default path to the tool settings file.
	DefaultConfigPath = "config/settings.json"
	// defaultSuitePath is the suite definition read when no other file is named.
	defaultSuitePath = "config/benchmark_config.yml"
	// defaultOutputDir is where report artifacts are written.
	defaultOutputDir = "gemmbenchData/reports"
	// defaultLogFile is the application log path.
	defaultLogFile = "gemmbenchData/logs/gemmbench.log"
	// defaultHistoryDB is the run-history database path.
	defaultHistoryDB = "gemmbenchData/history.db"
)

// Config represents the top-level tool settings. Suite contents (shapes,
// recipes, iteration counts) live in the suite YAML, not here.
type Config struct {
	Debug      bool   `json:"debug"`
	TUI        bool   `json:"tui"`
	SuiteFile  string `json:"suiteFile,omitempty"`
	OutputDir  string `json:"outputDir,omitempty"`
	LogFile    string `json:"logFile,omitempty"`
	HistoryDB  string `json:"historyDB,omitempty"`
	ConfigPath string `json:"-"`
}

// SuitePath returns the suite definition path, applying a default if not set.
func (c Config) SuitePath() string {
	if path := c.SuiteFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultSuitePath
}

// OutputDirPath returns the report output directory, applying a default if not set.
func (c Config) OutputDirPath() string {
	if dir := c.OutputDir; strings.TrimSpace(dir) != "" {
		return dir
	}
	return defaultOutputDir
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// HistoryDBPath returns the run-history database path, applying a default if not set.
func (c Config) HistoryDBPath() string {
	if path := c.HistoryDB; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultHistoryDB
}
