// internal/tui/progress.go
// Package tui renders the live progress screen shown while a suite runs.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/gemmbench/internal/matrix"
	"github.com/mwiater/gemmbench/internal/results"
	"github.com/mwiater/gemmbench/internal/util"
)

// recentTail is how many finished jobs stay visible below the progress bar.
const recentTail = 8

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	suiteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	measuredMark = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	failedMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// JobStartedMsg is a message sent when the engine begins measuring a job.
type JobStartedMsg struct {
	Job matrix.Job
}

// JobFinishedMsg is a message sent when a job finishes, carrying its result
// and the updated completion count.
type JobFinishedMsg struct {
	Result    results.JobResult
	Completed int
	Total     int
}

// DoneMsg is a message sent once the engine has drained its queue.
type DoneMsg struct{}

// Model is the Bubble Tea model for the run progress screen.
type Model struct {
	cancel    context.CancelFunc
	suite     string
	total     int
	completed int
	measured  int
	failed    int
	spinner   spinner.Model
	bar       progress.Model
	inflight  []matrix.Job
	recent    []string
	canceling bool
	done      bool
	width     int
}

// New creates a progress model for a suite with the given job count. The
// cancel function is invoked when the user quits mid-run so the engine stops
// scheduling further jobs.
func New(cancel context.CancelFunc, suite string, total int) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 50

	return &Model{
		cancel:  cancel,
		suite:   suite,
		total:   total,
		spinner: s,
		bar:     bar,
		width:   80,
	}
}

// NewProgram wraps the model in a Bubble Tea program on the alternate screen.
func NewProgram(m *Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen())
}

// Init initializes the Bubble Tea model and starts the spinner animation.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update is the central update function for the Bubble Tea model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.canceling {
				m.canceling = true
				if m.cancel != nil {
					m.cancel()
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = util.Min(util.Max(msg.Width-14, 10), 60)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case JobStartedMsg:
		m.inflight = append(m.inflight, msg.Job)
		return m, nil

	case JobFinishedMsg:
		m.completed = msg.Completed
		m.total = msg.Total
		m.dropInflight(msg.Result.Job.Seq)
		m.recordFinished(msg.Result)
		return m, nil

	case DoneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// dropInflight removes the job with the given sequence number from the
// in-flight list.
func (m *Model) dropInflight(seq int) {
	for i, job := range m.inflight {
		if job.Seq == seq {
			m.inflight = append(m.inflight[:i], m.inflight[i+1:]...)
			return
		}
	}
}

// recordFinished appends one finished job to the rolling tail and updates the
// status counters.
func (m *Model) recordFinished(res results.JobResult) {
	var line string
	if res.Measured() {
		m.measured++
		line = fmt.Sprintf("%s %s  %s",
			measuredMark.Render("ok"),
			res.Job.ID(),
			dimStyle.Render(results.FormatSeconds(res.Timing.MedianSeconds)))
	} else {
		m.failed++
		detail := string(res.ErrorKind)
		if res.ErrorMessage != "" {
			detail += ": " + util.TruncateRunes(res.ErrorMessage, 48)
		}
		line = fmt.Sprintf("%s %s  %s",
			failedMark.Render("fail"),
			res.Job.ID(),
			dimStyle.Render(detail))
	}

	m.recent = append(m.recent, line)
	if len(m.recent) > recentTail {
		m.recent = m.recent[len(m.recent)-recentTail:]
	}
}

// View renders the progress screen.
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("gemmbench") + "  " + suiteStyle.Render(m.suite) + "\n\n")

	pct := 0.0
	if m.total > 0 {
		pct = float64(m.completed) / float64(m.total)
	}
	b.WriteString(fmt.Sprintf("%s  %d/%d jobs\n\n", m.bar.ViewAs(pct), m.completed, m.total))

	switch {
	case m.done:
		b.WriteString(fmt.Sprintf("Done: %d measured, %d failed.\n", m.measured, m.failed))
	case m.canceling:
		b.WriteString(m.spinner.View() + " Canceling... letting in-flight jobs finish\n")
	case len(m.inflight) > 0:
		ids := make([]string, len(m.inflight))
		for i, job := range m.inflight {
			ids[i] = job.ID()
		}
		b.WriteString(m.spinner.View() + " Running " + util.TruncateRunes(strings.Join(ids, ", "), util.Max(m.width-12, 8)) + "\n")
	default:
		b.WriteString(m.spinner.View() + " Waiting for jobs...\n")
	}

	if len(m.recent) > 0 {
		b.WriteString("\n")
		for _, line := range m.recent {
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n" + dimStyle.Render("(q or ctrl+c to cancel)"))
	return b.String()
}
