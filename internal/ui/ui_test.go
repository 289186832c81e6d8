package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/fixkit/autofix"
	"github.com/randalmurphal/fixkit/edit"
	"github.com/randalmurphal/fixkit/runner"
)

func TestDiff_KeepsText(t *testing.T) {
	diff := "```diff\n--- a.txt original\n+++ a.txt updated\n@@ -1 +1 @@\n-old\n+new\n```\n\n"

	out := Diff(diff)

	for _, line := range []string{"--- a.txt original", "+++ a.txt updated", "@@ -1 +1 @@", "-old", "+new", "```diff"} {
		assert.Contains(t, out, line)
	}
	assert.Equal(t, strings.Count(diff, "\n"), strings.Count(out, "\n"))
	assert.Equal(t, "", Diff(""))
}

func TestResults(t *testing.T) {
	out := Results([]runner.CommandResult{
		{Command: "cargo clippy", Status: 0},
		{Command: "cargo test", Status: 101},
		{Command: "slow", Status: runner.TimeoutStatus},
	})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "✓ cargo clippy")
	assert.Contains(t, lines[1], "✗ cargo test")
	assert.Contains(t, lines[1], "exit 101")
	assert.Contains(t, lines[2], "timed out")

	assert.Contains(t, Results(nil), "no commands run")
}

func TestFailure(t *testing.T) {
	out := Failure(runner.CommandResult{Command: "make", Output: "a\nb\nc\n", Status: 2}, 2)

	assert.Contains(t, out, "✗ make")
	assert.Contains(t, out, "a\nb\n(exit status: 2)")
	assert.NotContains(t, out, "c\n")
}

func TestAttempt(t *testing.T) {
	pass := []runner.CommandResult{{Command: "t", Status: 0}}
	fail := []runner.CommandResult{{Command: "t", Status: 1}}

	assert.Contains(t, Attempt(autofix.Attempt{Number: 0, Results: pass}), "initial edit: all 1 command(s) passed")
	assert.Contains(t, Attempt(autofix.Attempt{Number: 0, Results: fail, Fixing: true, Failed: fail[0]}), "t failed, asking for a fix")
	assert.Contains(t, Attempt(autofix.Attempt{Number: 2, Results: fail}), "fix 2: 1 of 1 command(s) failed")
}

func TestOutcome(t *testing.T) {
	out := Outcome(&edit.Outcome{Revision: "0123456789abcdef", Mode: edit.ModeWhole})

	assert.Contains(t, out, "committed 0123456789ab")
	assert.NotContains(t, out, "cdef")
	assert.Contains(t, out, "whole")
	assert.Equal(t, "", Outcome(nil))
}
