// internal/cli/recipes.go
package gemmbench

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mwiater/gemmbench/internal/recipes"
)

var (
	recipeKindStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	recipeNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	recipeDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// recipesCmd lists the transformation registry a suite can pick from.
var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "List the available quantization and sparsity recipes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, kind := range []recipes.Kind{recipes.KindQuantization, recipes.KindSparsity} {
			cmd.Println(recipeKindStyle.Render(string(kind)))
			for _, r := range recipes.All() {
				if r.Kind() != kind {
					continue
				}
				name := recipeNameStyle.Render(fmt.Sprintf("%-12s", r.Name()))
				cmd.Printf("  %s %s\n", name, recipeDescStyle.Render(r.Description()))
			}
			cmd.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(recipesCmd)
}
