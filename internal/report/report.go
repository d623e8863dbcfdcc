// internal/report/report.go
// Package report renders an aggregated run into its artifacts: the JSON
// record, a CSV table, a styled console summary, and a standalone HTML
// dashboard.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwiater/gemmbench/internal/results"
	"github.com/mwiater/gemmbench/internal/util"
)

// Paths names the artifact files one run produced.
type Paths struct {
	JSON string
	CSV  string
	HTML string
}

var (
	writeJSONFn = WriteJSON
	writeCSVFn  = WriteCSV
	writeHTMLFn = WriteHTML
)

// Stem derives the per-run file stem from the suite name and start time.
func Stem(rep results.Report) string {
	return fmt.Sprintf("%s-%s", util.Slugify(rep.Run.Suite), rep.Run.StartedAt.Format("20060102-150405"))
}

// Write renders every artifact under dir, creating the directory when
// missing, and returns the paths written.
func Write(rep results.Report, dir string) (Paths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("error creating results directory: %w", err)
	}

	stem := Stem(rep)
	paths := Paths{
		JSON: filepath.Join(dir, stem+".json"),
		CSV:  filepath.Join(dir, stem+".csv"),
		HTML: filepath.Join(dir, stem+".html"),
	}

	if err := writeJSONFn(rep, paths.JSON); err != nil {
		return Paths{}, err
	}
	if err := writeCSVFn(rep, paths.CSV); err != nil {
		return Paths{}, err
	}
	if err := writeHTMLFn(rep, paths.HTML); err != nil {
		return Paths{}, err
	}
	return paths, nil
}

// WriteJSON writes the full report to a JSON file.
func WriteJSON(rep results.Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating result file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rep); err != nil {
		return fmt.Errorf("error writing results to file: %w", err)
	}
	return nil
}

// Load reads a JSON report back so the report command can re-render it.
func Load(path string) (results.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return results.Report{}, err
	}
	var rep results.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return results.Report{}, fmt.Errorf("error parsing report %s: %w", path, err)
	}
	return rep, nil
}
