// internal/report/report_test.go
package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/gemmbench/internal/results"
)

func sampleReport() results.Report {
	ratio := 0.5
	speedup := 2.0
	delta := 0.000213
	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	baselineTiming := &results.Timing{
		MedianSeconds: 1.0, MeanSeconds: 1.0, MinSeconds: 0.9,
		MaxSeconds: 1.1, StddevSeconds: 0.05, Iterations: 5,
	}
	recipeTiming := &results.Timing{
		MedianSeconds: 0.5, MeanSeconds: 0.5, MinSeconds: 0.45,
		MaxSeconds: 0.55, StddevSeconds: 0.02, Iterations: 5,
	}

	fastest := results.Highlight{
		ID: "7B/llama/4096x4096x4096/int8wo", Variant: "int8wo",
		MedianSeconds: 0.5, Speedup: &speedup,
	}

	return results.Report{
		Run: results.RunInfo{
			ID:           "run-1234",
			Suite:        "Llama Sweep",
			ConfigPath:   "config/benchmark_config.yml",
			StartedAt:    started,
			FinishedAt:   started.Add(42 * time.Second),
			Warmup:       2,
			Measurements: 5,
			Workers:      1,
		},
		Rows: []results.Row{
			{
				Seq: 0, ID: "7B/llama/4096x4096x4096/baseline",
				Param: "7B", Group: "llama", Shape: "4096x4096x4096",
				M: 4096, K: 4096, N: 4096,
				Variant: "baseline", Kind: "baseline",
				Dtype: "float32", Device: "cpu",
				Status: results.StatusMeasured,
				Timing: baselineTiming,
			},
			{
				Seq: 1, ID: "7B/llama/4096x4096x4096/int8wo",
				Param: "7B", Group: "llama", Shape: "4096x4096x4096",
				M: 4096, K: 4096, N: 4096,
				Variant: "int8wo", Kind: "quantization",
				Dtype: "float32", Device: "cpu",
				Status:          results.StatusMeasured,
				Timing:          recipeTiming,
				RatioToBaseline: &ratio,
				Speedup:         &speedup,
				AccuracyDelta:   &delta,
			},
			{
				Seq: 2, ID: "7B/llama/4096x4096x4096/marlin",
				Param: "7B", Group: "llama", Shape: "4096x4096x4096",
				M: 4096, K: 4096, N: 4096,
				Variant: "marlin", Kind: "quantization",
				Dtype: "float32", Device: "cpu",
				Status:       results.StatusFailed,
				ErrorKind:    results.ErrorKindRecipe,
				ErrorMessage: `marlin layout requires a cuda device, got "cpu"`,
			},
		},
		Summary: results.Summary{
			TotalJobs: 3, Measured: 2, Failed: 1,
			FailuresByKind:  map[string]int{string(results.ErrorKindRecipe): 1},
			DurationSeconds: 42,
			FastestPerGroup: []results.Highlight{fastest},
			BestSpeedup:     &fastest,
		},
	}
}

func TestWriteCreatesAllArtifacts(t *testing.T) {
	dir := t.TempDir()

	paths, err := Write(sampleReport(), filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	wantStem := "llama-sweep-20260314-093000"
	if filepath.Base(paths.JSON) != wantStem+".json" {
		t.Fatalf("unexpected json name: %s", paths.JSON)
	}
	for _, p := range []string{paths.JSON, paths.CSV, paths.HTML} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing artifact %s: %v", p, err)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	rep := sampleReport()

	if err := WriteJSON(rep, path); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Run.ID != rep.Run.ID || loaded.Run.Suite != rep.Run.Suite {
		t.Fatalf("run metadata lost: %+v", loaded.Run)
	}
	if len(loaded.Rows) != len(rep.Rows) {
		t.Fatalf("expected %d rows, got %d", len(rep.Rows), len(loaded.Rows))
	}
	if loaded.Rows[1].Speedup == nil || *loaded.Rows[1].Speedup != 2.0 {
		t.Fatalf("speedup lost in round trip: %+v", loaded.Rows[1])
	}
	if loaded.Rows[2].ErrorKind != results.ErrorKindRecipe {
		t.Fatalf("error kind lost in round trip: %+v", loaded.Rows[2])
	}
}

func TestLoadRejectsMalformedReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestWriteCSVColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")

	if err := WriteCSV(sampleReport(), path); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d records", len(records))
	}
	if len(records[0]) != len(csvHeader) {
		t.Fatalf("header has %d columns, want %d", len(records[0]), len(csvHeader))
	}

	baseline := records[1]
	if baseline[4] != "baseline" || baseline[9] != "1" {
		t.Fatalf("unexpected baseline record: %v", baseline)
	}

	recipe := records[2]
	if recipe[16] != "2" {
		t.Fatalf("expected speedup column 2, got %q", recipe[16])
	}

	failed := records[3]
	if failed[9] != "" || failed[18] != string(results.ErrorKindRecipe) {
		t.Fatalf("failed row should have empty timing and an error kind: %v", failed)
	}
}

func TestRenderConsoleShowsRowsAndSummary(t *testing.T) {
	out := RenderConsole(sampleReport())

	for _, want := range []string{
		"Suite: Llama Sweep",
		"7B / llama / 4096x4096x4096",
		"baseline",
		"int8wo",
		"2.00x",
		"RecipeApplicationError",
		"Fastest per group:",
		"Best speedup: 2.00x",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("console output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteHTMLEmbedsPayload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.html")

	if err := WriteHTML(sampleReport(), path); err != nil {
		t.Fatalf("WriteHTML failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"gemmbench: Llama Sweep",
		"run-1234",
		"speedupChart",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("html output missing %q", want)
		}
	}
}

func TestWriteUsesWriterSeams(t *testing.T) {
	origJSON, origCSV, origHTML := writeJSONFn, writeCSVFn, writeHTMLFn
	t.Cleanup(func() {
		writeJSONFn, writeCSVFn, writeHTMLFn = origJSON, origCSV, origHTML
	})

	var calls []string
	writeJSONFn = func(rep results.Report, path string) error {
		calls = append(calls, "json")
		return nil
	}
	writeCSVFn = func(rep results.Report, path string) error {
		calls = append(calls, "csv")
		return nil
	}
	writeHTMLFn = func(rep results.Report, path string) error {
		calls = append(calls, "html")
		return nil
	}

	if _, err := Write(sampleReport(), t.TempDir()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if strings.Join(calls, ",") != "json,csv,html" {
		t.Fatalf("unexpected writer sequence: %v", calls)
	}
}
