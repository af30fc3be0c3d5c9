package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/ShayCichocki/scenguard/pkg/models"
)

// ConsoleRenderer writes a human-readable compliance report.
type ConsoleRenderer struct {
	out     io.Writer
	verbose bool
}

// NewConsoleRenderer returns a renderer writing to out. When verbose is
// set, every result also lists the files backing it.
func NewConsoleRenderer(out io.Writer, verbose bool) *ConsoleRenderer {
	return &ConsoleRenderer{out: out, verbose: verbose}
}

// Render prints the report grouped by resource, followed by the
// compliance summary and the final verdict.
func (c *ConsoleRenderer) Render(report models.Report) error {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "=== Scenario Compliance Report ===")
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "Run:       %s\n", report.RunID)
	fmt.Fprintf(c.out, "Corpus:    %s\n", report.CorpusRoot)
	fmt.Fprintf(c.out, "Generated: %s\n", report.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "Checks: %d passed, %d failed, %d warnings (%d total)\n",
		report.Summary.Passed, report.Summary.Failed, report.Summary.Warnings, report.Summary.Total)

	c.renderResults(report.Results)
	c.renderSummary(report.Summary)
	return nil
}

func (c *ConsoleRenderer) renderResults(results []models.CheckResult) {
	if len(results) == 0 {
		return
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "--- Resource Details ---")

	current := ""
	for _, r := range results {
		if r.Resource != current {
			current = r.Resource
			fmt.Fprintf(c.out, "\n%s (%s)\n", current, scenarioLabel(r.Scenario))
		}

		if r.Status == models.StatusPass {
			fmt.Fprintf(c.out, "  %s %s: %s\n", statusIcon(r.Status), r.Check, r.Message)
		} else {
			fmt.Fprintf(c.out, "  %s %s [%s]: %s\n", statusIcon(r.Status), r.Check, r.Severity, r.Message)
		}
		for _, d := range r.Details {
			fmt.Fprintf(c.out, "      %s\n", d)
		}
		if c.verbose {
			for _, ref := range r.FileReferences {
				fmt.Fprintf(c.out, "      -> %s\n", ref)
			}
		}
	}
}

func (c *ConsoleRenderer) renderSummary(summary models.Summary) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "--- Summary ---")
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Scenario compliance:")
	for _, scenario := range models.AllScenarios() {
		fmt.Fprintf(c.out, "  %-12s %s\n", scenario, percent(summary.ScenarioCompliance[scenario]))
	}
	fmt.Fprintf(c.out, "Overall: %s\n", percent(summary.OverallCompliance))

	fmt.Fprintln(c.out)
	if summary.Success {
		fmt.Fprintf(c.out, "%s Corpus is compliant\n", color.GreenString("✓"))
		return
	}

	fmt.Fprintf(c.out, "%s %d critical failure(s) block this corpus:\n",
		color.RedString("✗"), len(summary.CriticalFailures))
	for _, r := range summary.CriticalFailures {
		fmt.Fprintf(c.out, "  - %s %s: %s\n", r.Resource, r.Check, r.Message)
	}
}

// statusIcon returns a colored glyph for a check status.
func statusIcon(status models.Status) string {
	switch status {
	case models.StatusPass:
		return color.GreenString("✓")
	case models.StatusFail:
		return color.RedString("✗")
	case models.StatusWarning:
		return color.YellowString("⚠")
	default:
		return "?"
	}
}

func scenarioLabel(scenario models.Scenario) string {
	if scenario == "" {
		return "no policy"
	}
	return string(scenario)
}

func percent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}
