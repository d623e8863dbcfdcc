// internal/cli/history_test.go
package gemmbench

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/gemmbench/internal/history"
	"github.com/mwiater/gemmbench/internal/results"
)

func historySettings(t *testing.T) (string, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	return fmt.Sprintf(`{"historyDB": %q}`, dbPath), dbPath
}

func TestHistoryCommandEmptyStore(t *testing.T) {
	settings, _ := historySettings(t)
	prepareCLI(t, settings)
	resetCommandFlags(historyCmd, "limit")

	out, err := runCLI(t, "history")
	if err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}
	if !strings.Contains(out, "No runs recorded yet.") {
		t.Fatalf("expected empty-store message, got %s", out)
	}
}

func TestHistoryCommandListsRuns(t *testing.T) {
	settings, dbPath := historySettings(t)
	prepareCLI(t, settings)
	resetCommandFlags(historyCmd, "limit")

	store, err := history.Open(dbPath)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	rep := results.Report{
		Run: results.RunInfo{
			ID:         "run-cli-test",
			Suite:      "smoke-suite",
			ConfigPath: "config/benchmark_config.yml",
			StartedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2025, 6, 1, 12, 0, 30, 0, time.UTC),
		},
		Summary: results.Summary{TotalJobs: 3, Measured: 2, Failed: 1},
	}
	if err := store.Record(rep, "gemmbenchData/results"); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close history: %v", err)
	}

	out, err := runCLI(t, "history")
	if err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}
	if !strings.Contains(out, "smoke-suite") {
		t.Fatalf("expected suite name, got %s", out)
	}
	if !strings.Contains(out, "2 measured") || !strings.Contains(out, "1 failed") {
		t.Fatalf("expected summary counts, got %s", out)
	}
	if !strings.Contains(out, "run-cli-test  reports: gemmbenchData/results") {
		t.Fatalf("expected run id and report dir, got %s", out)
	}
}
