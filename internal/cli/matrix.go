// internal/cli/matrix.go
package gemmbench

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/gemmbench/internal/matrix"
	"github.com/mwiater/gemmbench/internal/suite"
)

type matrixOptions struct {
	suitePath string
	asJSON    bool
}

var matrixOpts matrixOptions

var matrixHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))

// matrixCmd prints the expanded job matrix so a config can be inspected
// before committing to a run.
var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Print the expanded benchmark job matrix",
	Long: `Expand the suite configuration into its ordered job list and print it,
one row per job. Pass --json for the raw job records.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := suite.Load(resolveSuitePath(matrixOpts.suitePath))
		if err != nil {
			return err
		}
		jobs, err := matrix.Build(&cfg)
		if err != nil {
			return err
		}

		if matrixOpts.asJSON {
			data, err := json.MarshalIndent(jobs, "", "  ")
			if err != nil {
				return fmt.Errorf("unable to marshal job matrix: %w", err)
			}
			cmd.Println(string(data))
			return nil
		}

		if DebugEnabled() {
			pp.Println(cfg)
		}

		header := fmt.Sprintf("%-5s %-44s %-14s %-9s %-7s %-8s", "SEQ", "JOB", "KIND", "DTYPE", "DEVICE", "COMPILE")
		cmd.Println(matrixHeaderStyle.Render(header))
		for _, job := range jobs {
			compile := "-"
			if job.Compile {
				compile = "on"
				if job.CompileMode != "" {
					compile = job.CompileMode
				}
			}
			cmd.Printf("%-5d %-44s %-14s %-9s %-7s %-8s\n",
				job.Seq, job.ID(), job.Variant.Kind, job.Dtype, job.Device, compile)
		}
		cmd.Printf("\n%d jobs\n", len(jobs))
		return nil
	},
}

func init() {
	matrixCmd.Flags().StringVarP(&matrixOpts.suitePath, "file", "f", "", "suite configuration file (defaults to the settings' suite file)")
	matrixCmd.Flags().BoolVar(&matrixOpts.asJSON, "json", false, "print the raw job records as JSON")

	rootCmd.AddCommand(matrixCmd)
}
