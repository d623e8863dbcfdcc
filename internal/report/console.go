// internal/report/console.go
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/mwiater/gemmbench/internal/results"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	groupStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	measuredStatus = color.New(color.FgGreen).SprintFunc()
	failedStatus   = color.New(color.FgRed).SprintFunc()
	gainSpeedup    = color.New(color.FgGreen).SprintFunc()
	lossSpeedup    = color.New(color.FgYellow).SprintFunc()
)

// RenderConsole formats the post-run summary printed to the terminal. Rows
// arrive in matrix order, so group headers fall out of key changes.
func RenderConsole(rep results.Report) string {
	var b strings.Builder

	title := fmt.Sprintf("Suite: %s", rep.Run.Suite)
	b.WriteString(titleStyle.Render(title))
	if rep.Run.ID != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (run %s)", rep.Run.ID)))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  jobs %d  measured %d  failed %d  duration %.1fs",
		rep.Summary.TotalJobs, rep.Summary.Measured, rep.Summary.Failed, rep.Summary.DurationSeconds)))
	b.WriteString("\n")

	lastKey := ""
	for _, row := range rep.Rows {
		key := fmt.Sprintf("%s / %s / %s", row.Param, row.Group, row.Shape)
		if key != lastKey {
			b.WriteString("\n")
			b.WriteString(groupStyle.Render(key))
			b.WriteString("\n")
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %-14s %-10s %-12s %-8s %-8s %s",
				"VARIANT", "STATUS", "MEDIAN", "RATIO", "SPEEDUP", "NOTES")))
			b.WriteString("\n")
			lastKey = key
		}
		b.WriteString(renderRow(row))
		b.WriteString("\n")
	}

	b.WriteString(renderSummary(rep.Summary))
	return b.String()
}

// renderRow pads every cell before coloring it so ANSI escapes never skew
// the column widths.
func renderRow(row results.Row) string {
	status := measuredStatus(fmt.Sprintf("%-10s", row.Status))
	if row.Status == results.StatusFailed {
		status = failedStatus(fmt.Sprintf("%-10s", row.Status))
	}

	median := "-"
	if row.Timing != nil {
		median = results.FormatSeconds(row.Timing.MedianSeconds)
	}

	ratio := "-"
	if row.RatioToBaseline != nil {
		ratio = fmt.Sprintf("%.2fx", *row.RatioToBaseline)
	}

	speedup := fmt.Sprintf("%-8s", "-")
	if row.Speedup != nil {
		cell := fmt.Sprintf("%-8s", fmt.Sprintf("%.2fx", *row.Speedup))
		if *row.Speedup >= 1 {
			speedup = gainSpeedup(cell)
		} else {
			speedup = lossSpeedup(cell)
		}
	}

	notes := ""
	if row.AccuracyDelta != nil {
		notes = fmt.Sprintf("Δ %.3e", *row.AccuracyDelta)
	}
	if row.Status == results.StatusFailed {
		notes = fmt.Sprintf("%s: %s", row.ErrorKind, row.ErrorMessage)
	}

	return fmt.Sprintf("  %-14s %s %-12s %-8s %s %s",
		row.Variant, status, median, ratio, speedup, notes)
}

func renderSummary(summary results.Summary) string {
	var b strings.Builder

	if len(summary.FastestPerGroup) > 0 {
		b.WriteString("\n")
		b.WriteString(groupStyle.Render("Fastest per group:"))
		b.WriteString("\n")
		for _, h := range summary.FastestPerGroup {
			line := fmt.Sprintf("  %-14s %-12s", h.Variant, results.FormatSeconds(h.MedianSeconds))
			if h.Speedup != nil {
				line += fmt.Sprintf(" (%.2fx)", *h.Speedup)
			}
			line += "  " + h.ID
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if summary.BestSpeedup != nil && summary.BestSpeedup.Speedup != nil {
		b.WriteString(fmt.Sprintf("Best speedup: %.2fx  %s  (%s)\n",
			*summary.BestSpeedup.Speedup, summary.BestSpeedup.Variant, summary.BestSpeedup.ID))
	}

	if len(summary.FailuresByKind) > 0 {
		kinds := make([]string, 0, len(summary.FailuresByKind))
		for kind := range summary.FailuresByKind {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		parts := make([]string, 0, len(kinds))
		for _, kind := range kinds {
			parts = append(parts, fmt.Sprintf("%s=%d", kind, summary.FailuresByKind[kind]))
		}
		b.WriteString("Failures by kind: " + strings.Join(parts, "  ") + "\n")
	}

	if summary.Canceled {
		b.WriteString(failedStatus("Run canceled; unstarted jobs were skipped.") + "\n")
	}

	return b.String()
}
