// internal/cli/report.go
package gemmbench

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwiater/gemmbench/internal/report"
)

type reportOptions struct {
	inputPath string
	htmlPath  string
	csvPath   string
}

var reportOpts reportOptions

// reportCmd turns a previously written JSON report back into its rendered
// artifacts without re-executing any benchmarks.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Re-render report files from a run's JSON results",
	Long: `Read the JSON report written by a previous run and emit the HTML
dashboard (and optionally the CSV table) again, without re-executing any
benchmarks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportOpts.inputPath == "" {
			return fmt.Errorf("input report file is required (pass --input)")
		}
		rep, err := report.Load(reportOpts.inputPath)
		if err != nil {
			return fmt.Errorf("unable to read report %s: %w", reportOpts.inputPath, err)
		}

		htmlPath := reportOpts.htmlPath
		if htmlPath == "" {
			htmlPath = siblingArtifactPath(reportOpts.inputPath, ".html")
		}
		if err := report.WriteHTML(rep, htmlPath); err != nil {
			return fmt.Errorf("failed generating HTML report: %w", err)
		}
		cmd.Printf("Report written to %s\n", htmlPath)

		if reportOpts.csvPath != "" {
			if err := report.WriteCSV(rep, reportOpts.csvPath); err != nil {
				return fmt.Errorf("failed writing CSV report: %w", err)
			}
			cmd.Printf("CSV written to %s\n", reportOpts.csvPath)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOpts.inputPath, "input", "", "Path to a run's JSON report (required)")
	reportCmd.Flags().StringVar(&reportOpts.htmlPath, "html-output", "", "Destination HTML report path (defaults next to the input)")
	reportCmd.Flags().StringVar(&reportOpts.csvPath, "csv-output", "", "Optional path to write the CSV table")

	rootCmd.AddCommand(reportCmd)
}

// siblingArtifactPath swaps the input file's extension, keeping its directory.
func siblingArtifactPath(input, ext string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}
