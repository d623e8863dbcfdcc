// internal/cli/validate.go
package gemmbench

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/gemmbench/internal/matrix"
	"github.com/mwiater/gemmbench/internal/suite"
)

type validateOptions struct {
	suitePath string
}

var validateOpts validateOptions

// validateCmd checks the suite configuration and reports the matrix size
// without executing anything. Invalid configurations exit nonzero.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the suite configuration without running it",
	Long: `Load the suite configuration, apply every structural and semantic rule,
and expand the job matrix. Prints the job count on success; any configuration
fault is reported and the command exits nonzero.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveSuitePath(validateOpts.suitePath)
		cfg, err := suite.Load(path)
		if err != nil {
			return err
		}
		jobs, err := matrix.Build(&cfg)
		if err != nil {
			return err
		}
		cmd.Printf("%s: OK (%d jobs)\n", path, len(jobs))
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateOpts.suitePath, "file", "f", "", "suite configuration file (defaults to the settings' suite file)")

	rootCmd.AddCommand(validateCmd)
}
