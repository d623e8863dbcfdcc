// internal/cli/commands.go
package gemmbench

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// commandsCmd prints the available commands and subcommands in a
// hierarchical, indented, two-column format.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Long:  `The 'commands' subcommand lists all commands and subcommands in a hierarchical, indented format, with the command path in the first column and its short description in the second column.`,
	Run: func(cmd *cobra.Command, args []string) {
		printCommandTree(cmd.OutOrStdout(), rootCmd)
	},
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}

// commandInfo holds the path and description of a command for display.
type commandInfo struct {
	path        string
	description string
}

// printCommandTree prints the command tree in a two-column layout.
func printCommandTree(out io.Writer, root *cobra.Command) {
	commandData := collectCommandData(root, "", "")

	maxPathLength := 0
	for _, data := range commandData {
		if len(data.path) > maxPathLength {
			maxPathLength = len(data.path)
		}
	}

	fmt.Fprintln(out, "Commands and Subcommands:")
	for _, data := range commandData {
		if strings.Contains(data.path, "completion") || strings.Contains(data.path, "help") {
			continue
		}
		fmt.Fprintf(out, "  %s%s%s\n", data.path, strings.Repeat(" ", maxPathLength-len(data.path)+2), data.description)
	}
}

// collectCommandData collects command metadata for display, walking the
// command tree and returning a flattened slice of path/description pairs.
func collectCommandData(cmd *cobra.Command, currentPath string, indent string) []commandInfo {
	var allData []commandInfo

	fullPath := currentPath + cmd.Name()
	if currentPath != "" {
		fullPath = currentPath + " " + cmd.Name()
	}

	allData = append(allData, commandInfo{
		path:        indent + fullPath,
		description: cmd.Short,
	})

	for _, subCmd := range cmd.Commands() {
		allData = append(allData, collectCommandData(subCmd, fullPath, indent+"  ")...)
	}

	return allData
}
