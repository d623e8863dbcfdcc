// cmd/gemmbench/main.go
package main

import (
	cmd "github.com/mwiater/gemmbench/internal/cli"
)

// Build-time variables injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Seams for tests.
var (
	setVersionInfo = cmd.SetVersionInfo
	executeCmd     = cmd.Execute
)

// main starts the gemmbench CLI application by delegating to the cobra root
// command. Settings loading and logger setup happen in the root command's
// PersistentPreRunE so they see the parsed flags.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
