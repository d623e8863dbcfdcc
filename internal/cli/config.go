// internal/cli/config.go
package gemmbench

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/gemmbench/internal/appconfig"
)

// configCmd displays the merged tool settings.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show tool settings",
	Long:  `Show tool settings ensuring that the JSON settings are loaded properly and overridden by flags accordingly.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fallback := appconfig.Config{
			Debug: viper.GetBool("debug"),
			TUI:   viper.GetBool("tui"),
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), GetConfig(), fallback)

		if DebugEnabled() && GetConfig() != nil {
			pp.Println(*GetConfig())
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
