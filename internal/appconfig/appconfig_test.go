// internal/appconfig/appconfig_test.go
package appconfig

import (
	"strings"
	"testing"
)

// TestDefaultPaths verifies the fallback paths applied when settings are unset.
func TestDefaultPaths(t *testing.T) {
	var cfg Config
	if got := cfg.SuitePath(); got != "config/benchmark_config.yml" {
		t.Errorf("unexpected default suite path %q", got)
	}
	if got := cfg.OutputDirPath(); got != "gemmbenchData/reports" {
		t.Errorf("unexpected default output dir %q", got)
	}
	if got := cfg.LogFilePath(); got != "gemmbenchData/logs/gemmbench.log" {
		t.Errorf("unexpected default log file %q", got)
	}
	if got := cfg.HistoryDBPath(); got != "gemmbenchData/history.db" {
		t.Errorf("unexpected default history db %q", got)
	}

	cfg = Config{SuiteFile: "   ", LogFile: "\t"}
	if got := cfg.SuitePath(); got != "config/benchmark_config.yml" {
		t.Errorf("expected blank suite file to fall back, got %q", got)
	}
	if got := cfg.LogFilePath(); got != "gemmbenchData/logs/gemmbench.log" {
		t.Errorf("expected blank log file to fall back, got %q", got)
	}
}

// TestConfiguredPathsStick verifies explicit settings win over the defaults.
func TestConfiguredPathsStick(t *testing.T) {
	cfg := Config{
		SuiteFile: "config/suite.yml",
		OutputDir: "out/reports",
		LogFile:   "out/gemmbench.log",
		HistoryDB: "out/history.db",
	}
	if got := cfg.SuitePath(); got != "config/suite.yml" {
		t.Errorf("expected configured suite path, got %q", got)
	}
	if got := cfg.OutputDirPath(); got != "out/reports" {
		t.Errorf("expected configured output dir, got %q", got)
	}
	if got := cfg.LogFilePath(); got != "out/gemmbench.log" {
		t.Errorf("expected configured log file, got %q", got)
	}
	if got := cfg.HistoryDBPath(); got != "out/history.db" {
		t.Errorf("expected configured history db, got %q", got)
	}
}

// TestShowConfig verifies the settings summary output for loaded and
// fallback configurations.
func TestShowConfig(t *testing.T) {
	var buf strings.Builder
	ShowConfig(&buf, "", nil, Config{Debug: true})
	out := buf.String()
	if !strings.Contains(out, "No settings file loaded") {
		t.Errorf("expected defaults notice, got %q", out)
	}
	if !strings.Contains(out, "Debug:      true") {
		t.Errorf("expected fallback debug value, got %q", out)
	}
	if !strings.Contains(out, "Suite File: config/benchmark_config.yml") {
		t.Errorf("expected default suite path in fallback output, got %q", out)
	}

	buf.Reset()
	cfg := &Config{TUI: true, SuiteFile: "suite.yml"}
	ShowConfig(&buf, "config/settings.json", cfg, Config{})
	out = buf.String()
	if !strings.Contains(out, "Settings file: config/settings.json") {
		t.Errorf("expected settings file header, got %q", out)
	}
	if !strings.Contains(out, "TUI:        true") {
		t.Errorf("expected tui value, got %q", out)
	}
	if !strings.Contains(out, "Suite File: suite.yml") {
		t.Errorf("expected configured suite path, got %q", out)
	}
}
