// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pysetup/pysetup/internal/provision"
	"github.com/pysetup/pysetup/internal/resolve"
)

// outputTailLines bounds the captured output echoed for a failed stage.
const outputTailLines = 20

var (
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")).Width(10)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	stageStyle   = lipgloss.NewStyle().Width(20)
	outputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).PaddingLeft(6)
	versionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
)

// WriteText renders the report for a terminal. Verbose adds info-level
// diagnostics and stage durations.
func (r *Report) WriteText(w io.Writer, verbose bool) error {
	var b strings.Builder

	project := r.Locator.String()
	if r.LocalPath != "" && r.LocalPath != project {
		project += mutedStyle.Render(" (" + r.LocalPath + ")")
	}
	line(&b, "Project", project)
	line(&b, "Python", resolutionText(r.Resolution))
	if r.DockerCompatible {
		line(&b, "Docker", okStyle.Render("compatible"))
	} else {
		line(&b, "Docker", mutedStyle.Render("no Dockerfile or compose file"))
	}

	diags := r.Resolution.Warnings()
	if verbose {
		diags = r.Resolution.Diagnostics
	}
	if len(diags) > 0 {
		b.WriteString("\n")
		for _, d := range diags {
			b.WriteString("  " + diagnosticText(d) + "\n")
		}
	}

	if len(r.Outcomes) > 0 {
		b.WriteString("\n")
		for _, o := range r.Outcomes {
			writeOutcome(&b, o, verbose)
		}
	}

	if d := r.Duration(); d > 0 {
		b.WriteString("\n" + mutedStyle.Render("finished in "+d.Round(time.Millisecond).String()) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func line(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label) + value + "\n")
}

func resolutionText(res resolve.Result) string {
	if !res.Found() {
		return failStyle.Render("not detected")
	}
	return versionStyle.Render(res.Token.String()) +
		mutedStyle.Render(fmt.Sprintf(" (%s, %s)", res.Source, res.Confidence))
}

func diagnosticText(d resolve.Diagnostic) string {
	text := d.Message
	if d.Path != "" {
		text = d.Path + ": " + text
	}
	switch d.Severity {
	case resolve.SeverityError:
		return failStyle.Render("✗ " + text)
	case resolve.SeverityWarning:
		return warnStyle.Render("! " + text)
	default:
		return mutedStyle.Render("· " + text)
	}
}

func writeOutcome(b *strings.Builder, o provision.Outcome, verbose bool) {
	var mark string
	switch o.Status {
	case provision.StatusOK:
		mark = okStyle.Render("✓")
	case provision.StatusFailed:
		mark = failStyle.Render("✗")
	default:
		mark = mutedStyle.Render("-")
	}

	text := "  " + mark + " " + stageStyle.Render(o.Stage.String()) + o.Detail
	if verbose && o.Duration > 0 {
		text += mutedStyle.Render(" " + o.Duration.Round(time.Millisecond).String())
	}
	b.WriteString(text + "\n")

	if o.Failed() && strings.TrimSpace(o.Output) != "" {
		for _, l := range tail(o.Output, outputTailLines) {
			b.WriteString(outputStyle.Render(l) + "\n")
		}
	}
}

// tail returns the last n non-empty-trailing lines of s.
func tail(s string, n int) []string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
