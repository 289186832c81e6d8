package diffs

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	minFenceTicks = 3
	maxFenceTicks = 10

	// contextLines is the number of unchanged lines around each hunk.
	contextLines = 3

	noNewlineMarker = "\\ No newline at end of file\n"
)

// UnifiedDiff renders the line diff between original and updated as a fenced
// block. When name is non-empty the block starts with
// "--- name original" / "+++ name updated" header lines.
// Identical inputs produce no "+" or "-" lines.
func UnifiedDiff(original, updated, name string) string {
	return render(unifiedBody(original, updated), name)
}

// FenceWrap wraps body in the shortest backtick fence (3 to 10 ticks) that
// does not already occur in body. The info string follows the opening fence.
// The closing fence starts its own line, so a newline is appended to a
// non-empty body that lacks one and parser.ExtractFenced returns the body
// with that newline.
func FenceWrap(body, info string) string {
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	ticks := minFenceTicks
	for strings.Contains(body, strings.Repeat("`", ticks)) && ticks < maxFenceTicks {
		ticks++
	}
	fence := strings.Repeat("`", ticks)

	var b strings.Builder
	b.WriteString(fence)
	b.WriteString(info)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString(fence)
	b.WriteString("\n\n")
	return b.String()
}

// render adds the optional name header and fences the diff body.
func render(body, name string) string {
	if name != "" {
		body = fmt.Sprintf("--- %s original\n+++ %s updated\n", name, name) + body
	}
	return FenceWrap(body, "diff")
}

// unifiedBody returns the "@@" hunks of a unified diff without file headers.
func unifiedBody(original, updated string) string {
	a := diffLines(original)
	b := diffLines(updated)

	var out strings.Builder
	matcher := difflib.NewMatcher(a, b)
	for _, group := range matcher.GetGroupedOpCodes(contextLines) {
		if onlyEqual(group) {
			continue
		}
		first, last := group[0], group[len(group)-1]
		fmt.Fprintf(&out, "@@ -%s +%s @@\n", formatRange(first.I1, last.I2), formatRange(first.J1, last.J2))

		for _, op := range group {
			switch op.Tag {
			case 'e':
				writeLines(&out, " ", a[op.I1:op.I2])
			case 'd':
				writeLines(&out, "-", a[op.I1:op.I2])
			case 'i':
				writeLines(&out, "+", b[op.J1:op.J2])
			case 'r':
				writeLines(&out, "-", a[op.I1:op.I2])
				writeLines(&out, "+", b[op.J1:op.J2])
			}
		}
	}
	return out.String()
}

func writeLines(out *strings.Builder, prefix string, lines []string) {
	for _, line := range lines {
		out.WriteString(prefix)
		out.WriteString(line)
	}
}

func onlyEqual(group []difflib.OpCode) bool {
	for _, op := range group {
		if op.Tag != 'e' {
			return false
		}
	}
	return true
}

// formatRange formats a hunk range the way diff -u does.
func formatRange(start, stop int) string {
	beginning := start + 1
	length := stop - start
	if length == 1 {
		return fmt.Sprintf("%d", beginning)
	}
	if length == 0 {
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}

// diffLines splits text for diffing. A final line without a terminator
// carries the "\ No newline at end of file" marker so it still renders on its
// own line and differs from the same line with a terminator.
func diffLines(text string) []string {
	lines := splitLines(text)
	if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
		lines[n-1] += "\n" + noNewlineMarker
	}
	return lines
}

// splitLines splits s into lines, keeping each line's "\n".
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
