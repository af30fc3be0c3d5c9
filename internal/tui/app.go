package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/scenguard/internal/runner"
	"github.com/ShayCichocki/scenguard/pkg/models"
)

// RunEventMsg wraps a runner progress event for the TUI event loop.
type RunEventMsg runner.Event

// ReportMsg delivers the final report once the run has finished.
type ReportMsg struct {
	Report models.Report
}

// RunFailedMsg signals that the run aborted before producing a report.
type RunFailedMsg struct {
	Err error
}

// resourceState tracks where a single resource is in the run.
type resourceState int

const (
	resourceScanning resourceState = iota
	resourceDone
)

type resourceRow struct {
	name  string
	state resourceState
}

// App is the bubbletea model for a live validation run.
type App struct {
	header *Header
	spin   spinner.Model

	corpusRoot string
	rows       []resourceRow
	index      map[string]int
	completed  int
	total      int

	done      bool
	cancelled bool
	failure   error
	report    models.Report

	width    int
	height   int
	quitting bool

	labelStyle    lipgloss.Style
	valueStyle    lipgloss.Style
	progressFull  lipgloss.Style
	progressEmpty lipgloss.Style
	passStyle     lipgloss.Style
	warnStyle     lipgloss.Style
	failStyle     lipgloss.Style
	dimStyle      lipgloss.Style
}

// NewApp creates the run view for a corpus root.
func NewApp(corpusRoot string) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &App{
		header:     NewHeader(),
		spin:       s,
		corpusRoot: corpusRoot,
		index:      make(map[string]int),
		width:      80,
		height:     24,

		labelStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12),
		valueStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
		progressFull:  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		progressEmpty: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		passStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		warnStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		failStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		dimStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Init starts the spinner tick.
func (a *App) Init() tea.Cmd {
	return a.spin.Tick
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			a.quitting = true
			return a, tea.Quit
		default:
			// Once the run has settled, any key dismisses the view.
			if a.done {
				a.quitting = true
				return a, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.header.SetWidth(msg.Width)

	case spinner.TickMsg:
		if a.done {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case RunEventMsg:
		a.handleRunEvent(runner.Event(msg))

	case ReportMsg:
		a.done = true
		a.report = msg.Report

	case RunFailedMsg:
		a.done = true
		a.failure = msg.Err
	}

	return a, nil
}

func (a *App) handleRunEvent(event runner.Event) {
	switch event.Type {
	case runner.EventRunStarted:
		a.total = event.Total

	case runner.EventResourceStarted:
		if _, ok := a.index[event.Resource]; !ok {
			a.index[event.Resource] = len(a.rows)
			a.rows = append(a.rows, resourceRow{name: event.Resource, state: resourceScanning})
		}

	case runner.EventResourceCompleted:
		if i, ok := a.index[event.Resource]; ok {
			a.rows[i].state = resourceDone
		}
		a.completed = event.Completed

	case runner.EventRunCompleted:
		a.completed = event.Completed

	case runner.EventRunCancelled:
		a.completed = event.Completed
		a.cancelled = true

	case runner.EventRunFailed:
		if event.Err != nil {
			a.failure = event.Err
		}
	}
}

// View renders the run view.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(a.header.View())
	b.WriteString("\n")

	b.WriteString("  ")
	b.WriteString(a.labelStyle.Render("Corpus"))
	b.WriteString(a.valueStyle.Render(a.corpusRoot))
	b.WriteString("\n\n")

	switch {
	case a.failure != nil:
		b.WriteString(fmt.Sprintf("  %s %s\n\n", a.failStyle.Render("✗ Run failed:"), a.failure))
		b.WriteString(a.dimStyle.Render("  Press any key to exit."))
		b.WriteString("\n")
	case a.done:
		a.renderSummary(&b)
	default:
		a.renderProgress(&b)
	}

	return b.String()
}

func (a *App) renderProgress(b *strings.Builder) {
	pct := 0.0
	if a.total > 0 {
		pct = float64(a.completed) / float64(a.total) * 100
	}
	b.WriteString(fmt.Sprintf("  %s %s  %d/%d resources\n\n",
		a.spin.View(), a.renderProgressBar(pct, 30), a.completed, a.total))

	for _, row := range a.rows {
		switch row.state {
		case resourceDone:
			b.WriteString(fmt.Sprintf("  %s %s\n", a.passStyle.Render("✓"), row.name))
		default:
			b.WriteString(fmt.Sprintf("  %s %s\n", a.spin.View(), row.name))
		}
	}

	b.WriteString("\n")
	b.WriteString(a.dimStyle.Render("  Press q to abort."))
	b.WriteString("\n")
}

func (a *App) renderSummary(b *strings.Builder) {
	summary := a.report.Summary

	if a.cancelled {
		b.WriteString(fmt.Sprintf("  %s %d of %d resources were validated before the run stopped.\n\n",
			a.warnStyle.Render("⚠ Run cancelled:"), a.completed, a.total))
	}

	b.WriteString(fmt.Sprintf("  Checks: %d passed, %d failed, %d warnings (%d total)\n\n",
		summary.Passed, summary.Failed, summary.Warnings, summary.Total))

	for _, scenario := range models.AllScenarios() {
		rate, ok := summary.ScenarioCompliance[scenario]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s\n",
			a.labelStyle.Render(string(scenario)),
			a.valueStyle.Render(fmt.Sprintf("%.1f%%", rate*100))))
	}
	b.WriteString("\n")

	if summary.Success {
		b.WriteString(fmt.Sprintf("  %s Corpus is compliant\n", a.passStyle.Render("✓")))
	} else {
		b.WriteString(fmt.Sprintf("  %s %d critical failure(s) block this corpus:\n",
			a.failStyle.Render("✗"), len(summary.CriticalFailures)))
		for _, result := range summary.CriticalFailures {
			b.WriteString(fmt.Sprintf("    - %s %s: %s\n", result.Resource, result.Check, result.Message))
		}
	}

	b.WriteString("\n")
	b.WriteString(a.dimStyle.Render("  Press any key to exit."))
	b.WriteString("\n")
}

// renderProgressBar renders a progress bar with the given percentage.
func (a *App) renderProgressBar(pct float64, width int) string {
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	empty := width - filled

	bar := a.progressFull.Render(strings.Repeat("█", filled)) +
		a.progressEmpty.Render(strings.Repeat("░", empty))

	return fmt.Sprintf("%s %.0f%%", bar, pct)
}

// Run starts the TUI and blocks until it exits.
func Run(corpusRoot string) error {
	p := tea.NewProgram(NewApp(corpusRoot), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// NewProgram creates a TUI program without starting it, so callers can
// feed it messages from a running validation.
func NewProgram(corpusRoot string) (*tea.Program, *App) {
	app := NewApp(corpusRoot)
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}
