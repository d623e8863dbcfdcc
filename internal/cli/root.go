// internal/cli/root.go
package gemmbench

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/gemmbench/internal/appconfig"
	"github.com/mwiater/gemmbench/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gemmbench",
	Short: "gemmbench — declarative GEMM benchmark matrices across quantization and sparsity recipes",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load settings (file or defaults)
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// 2) If user did NOT set a flag, copy the settings value into the flag
		//    so both pflags and viper reflect the same, final value.
		for _, name := range []string{"debug", "tui"} {
			if !cmd.Flags().Changed(name) {
				val := viper.GetBool(name)
				_ = cmd.Flags().Set(name, strconv.FormatBool(val))
			}
		}

		// 3) Materialize the fully merged settings into currentConfig
		//    (flags > settings file > defaults). This gives other packages a
		//    stable snapshot.
		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal settings: %w", err)
		}
		cfg.ConfigPath = cfgFile
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "tool settings file (e.g., config/settings.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug output")
	rootCmd.PersistentFlags().Bool("tui", false, "show the live progress screen while a suite runs")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("tui", rootCmd.PersistentFlags().Lookup("tui"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// initConfig reads in the settings file if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the settings file. Every setting has a usable
// default, so only an explicitly named file is required to exist.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if errors.Is(err, os.ErrNotExist) && cfgFile == appconfig.DefaultConfigPath {
			return nil
		}
		return fmt.Errorf("failed to load settings: %w", err)
	}
	return nil
}

// GetConfig returns the loaded tool settings for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug output is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// TUIEnabled returns true if the progress screen is enabled for runs.
func TUIEnabled() bool { return viper.GetBool("tui") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
