package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current tool settings summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No settings file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Settings file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current settings:")
	if cfg == nil {
		fmt.Fprintf(out, "  Debug:      %v\n", fallback.Debug)
		fmt.Fprintf(out, "  TUI:        %v\n", fallback.TUI)
		fmt.Fprintf(out, "  Suite File: %s\n", fallback.SuitePath())
		fmt.Fprintf(out, "  Output Dir: %s\n", fallback.OutputDirPath())
		fmt.Fprintf(out, "  Log File:   %s\n", fallback.LogFilePath())
		fmt.Fprintf(out, "  History DB: %s\n", fallback.HistoryDBPath())
		return
	}

	fmt.Fprintf(out, "  Debug:      %v\n", cfg.Debug)
	fmt.Fprintf(out, "  TUI:        %v\n", cfg.TUI)
	fmt.Fprintf(out, "  Suite File: %s\n", cfg.SuitePath())
	fmt.Fprintf(out, "  Output Dir: %s\n", cfg.OutputDirPath())
	fmt.Fprintf(out, "  Log File:   %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  History DB: %s\n", cfg.HistoryDBPath())
}
