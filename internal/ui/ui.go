// Package ui renders diffs and run results for the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/randalmurphal/fixkit/autofix"
	"github.com/randalmurphal/fixkit/edit"
	"github.com/randalmurphal/fixkit/runner"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	fileStyle    = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
)

// Header renders a section title.
func Header(title string) string {
	return headerStyle.Render(title)
}

// Diff colors a unified diff line by line. Fence lines are dimmed.
func Diff(diff string) string {
	if diff == "" {
		return ""
	}
	lines := strings.SplitAfter(diff, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		b.WriteString(diffLine(text))
		if strings.HasSuffix(line, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func diffLine(text string) string {
	switch {
	case text == "":
		return text
	case strings.HasPrefix(text, "```"):
		return faintStyle.Render(text)
	case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"), strings.HasPrefix(text, "diff --git"):
		return fileStyle.Render(text)
	case strings.HasPrefix(text, "@@"):
		return hunkStyle.Render(text)
	case text[0] == '+':
		return addedStyle.Render(text)
	case text[0] == '-':
		return removedStyle.Render(text)
	}
	return text
}

// Results renders one line per command with its status.
func Results(results []runner.CommandResult) string {
	if len(results) == 0 {
		return faintStyle.Render("no commands run") + "\n"
	}
	var b strings.Builder
	for _, r := range results {
		b.WriteString(Result(r))
		b.WriteString("\n")
	}
	return b.String()
}

// Result renders a single command result.
func Result(r runner.CommandResult) string {
	switch {
	case r.Status == runner.TimeoutStatus:
		return warnStyle.Render("⏱ "+r.Command) + faintStyle.Render(" (timed out)")
	case r.Failed():
		return removedStyle.Render("✗ "+r.Command) + faintStyle.Render(fmt.Sprintf(" (exit %d)", r.Status))
	}
	return addedStyle.Render("✓ " + r.Command)
}

// Failure renders the summary of a failed command's output.
func Failure(r runner.CommandResult, lines int) string {
	return removedStyle.Render("✗ "+r.Command) + "\n" +
		runner.SummarizeOutput(r.Output, lines, r.Status) + "\n"
}

// Attempt renders the progress line for one verification round.
func Attempt(a autofix.Attempt) string {
	failed := 0
	for _, r := range a.Results {
		if r.Failed() {
			failed++
		}
	}

	label := "initial edit"
	if a.Number > 0 {
		label = fmt.Sprintf("fix %d", a.Number)
	}
	switch {
	case failed == 0:
		return addedStyle.Render(fmt.Sprintf("%s: all %d command(s) passed", label, len(a.Results)))
	case a.Fixing:
		return warnStyle.Render(fmt.Sprintf("%s: %s failed, asking for a fix", label, a.Failed.Command))
	}
	return removedStyle.Render(fmt.Sprintf("%s: %d of %d command(s) failed", label, failed, len(a.Results)))
}

// Outcome renders the commit an edit produced.
func Outcome(o *edit.Outcome) string {
	if o == nil {
		return ""
	}
	rev := o.Revision
	if len(rev) > 12 {
		rev = rev[:12]
	}
	return addedStyle.Render("committed "+rev) + faintStyle.Render(fmt.Sprintf(" (%s edit)", o.Mode))
}
