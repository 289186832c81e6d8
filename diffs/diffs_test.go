package diffs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fixkit/parser"
)

func TestUnifiedDiff_ShowsChanges(t *testing.T) {
	diff := UnifiedDiff("old\n", "new\n", "file.txt")

	assert.Contains(t, diff, "-old")
	assert.Contains(t, diff, "+new")
	assert.Contains(t, diff, "file.txt")
	assert.Equal(t, "```diff\n--- file.txt original\n+++ file.txt updated\n@@ -1 +1 @@\n-old\n+new\n```\n\n", diff)
}

func TestUnifiedDiff_NoChange(t *testing.T) {
	text := "a\nb\nc\n"
	diff := UnifiedDiff(text, text, "x.go")

	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") {
			continue
		}
		assert.False(t, strings.HasPrefix(line, "+"), "unexpected added line %q", line)
		assert.False(t, strings.HasPrefix(line, "-"), "unexpected removed line %q", line)
	}
	assert.True(t, strings.HasSuffix(diff, "\n"))
}

func TestUnifiedDiff_WithoutName(t *testing.T) {
	diff := UnifiedDiff("a\n", "b\n", "")

	assert.NotContains(t, diff, "original")
	assert.True(t, strings.HasPrefix(diff, "```diff\n@@ -1 +1 @@\n"))
}

func TestUnifiedDiff_ContextAndRanges(t *testing.T) {
	orig := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n"
	updated := "1\n2\n3\n4\nfive\n6\n7\n8\n9\n10\n"

	diff := UnifiedDiff(orig, updated, "")

	assert.Contains(t, diff, "@@ -2,7 +2,7 @@\n 2\n 3\n 4\n-5\n+five\n 6\n 7\n 8\n")
	assert.NotContains(t, diff, " 1\n")
}

func TestUnifiedDiff_MissingTrailingNewline(t *testing.T) {
	diff := UnifiedDiff("a\n", "a", "")

	assert.Contains(t, diff, "-a\n+a\n\\ No newline at end of file\n")
}

func TestUnifiedDiff_WidensFence(t *testing.T) {
	diff := UnifiedDiff("x\n", "```go\n", "")

	assert.True(t, strings.HasPrefix(diff, "````diff\n"), diff)
	assert.True(t, strings.HasSuffix(diff, "\n````\n\n"), diff)
}

func TestFenceWrap_Widening(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		ticks int
	}{
		{name: "plain", body: "hello\n", ticks: 3},
		{name: "triple", body: "```\n", ticks: 4},
		{name: "quad", body: "a ```` b\n", ticks: 5},
		{name: "capped", body: strings.Repeat("`", 12) + "\n", ticks: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FenceWrap(tt.body, "diff")
			fence := strings.Repeat("`", tt.ticks)
			assert.True(t, strings.HasPrefix(out, fence+"diff\n"))
			assert.False(t, strings.HasPrefix(out, fence+"`"))
		})
	}
}

func TestFenceWrap_RoundTrip(t *testing.T) {
	bodies := []string{
		"plain text\n",
		"has ``` inside\n",
		"```go\nfmt.Println()\n```\n",
		"",
	}

	for _, body := range bodies {
		got, err := parser.ExtractFenced(FenceWrap(body, "text"))
		require.NoError(t, err)
		assert.Equal(t, body, got)
	}
}

func TestFenceWrap_UnterminatedBodyGainsNewline(t *testing.T) {
	for _, body := range []string{"no newline", "ends in tick `"} {
		wrapped := FenceWrap(body, "")
		assert.Equal(t, "```\n"+body+"\n```\n\n", wrapped)

		got, err := parser.ExtractFenced(wrapped)
		require.NoError(t, err)
		assert.Equal(t, body+"\n", got)
	}
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", 30), ProgressBar(0))
	assert.Equal(t, strings.Repeat("█", 15)+strings.Repeat("░", 15), ProgressBar(50))
	assert.Equal(t, strings.Repeat("█", 30), ProgressBar(100))
	assert.Equal(t, strings.Repeat("█", 30), ProgressBar(250))
}

func TestDiffPartialUpdate_NoSurvivingLine(t *testing.T) {
	orig := []string{"a\n", "b\n"}
	updated := []string{"x\n", "y"}

	assert.Equal(t, "", DiffPartialUpdate(orig, updated, false, "f.txt"))
}

func TestDiffPartialUpdate_InProgress(t *testing.T) {
	orig := []string{"one\n", "two\n", "three\n", "four\n"}
	updated := []string{"one\n", "TWO\n", "thr"}

	out := DiffPartialUpdate(orig, updated, false, "f.txt")

	// only "one" survives so far: cut after line 1 of 4
	assert.Contains(t, out, "   1 /   4 lines [")
	assert.Contains(t, out, "]  25%")
	assert.Contains(t, out, "+TWO\n")
	assert.NotContains(t, out, "-two")
	assert.NotContains(t, out, "thr")
	assert.Contains(t, out, "--- f.txt original\n")
}

func TestDiffPartialUpdate_Final(t *testing.T) {
	orig := []string{"one\n", "two\n"}
	updated := []string{"one\n", "2\n"}

	out := DiffPartialUpdate(orig, updated, true, "")

	assert.Contains(t, out, "-two\n+2\n")
	assert.NotContains(t, out, "lines [")
}

func TestDiffPartialUpdate_PercentBounds(t *testing.T) {
	orig := []string{"a\n", "b\n", "c\n"}
	for i := 0; i <= len(orig); i++ {
		out := DiffPartialUpdate(orig, append(append([]string(nil), orig[:i]...), "zz"), false, "")
		if i == 0 {
			assert.Equal(t, "", out)
			continue
		}
		assert.Regexp(t, `\] +(\d|\d\d|100)%`, out)
	}
}

func TestDiffPartialUpdate_EmptyOriginal(t *testing.T) {
	out := DiffPartialUpdate(nil, []string{"new\n"}, true, "")
	assert.Contains(t, out, "@@ -0,0 +1 @@\n+new\n")

	assert.Equal(t, "", DiffPartialUpdate(nil, []string{"new\n"}, false, ""))
}

func TestDiffPartialUpdate_PanicsOnMissingNewline(t *testing.T) {
	assert.Panics(t, func() {
		DiffPartialUpdate([]string{"a", "b\n"}, nil, true, "")
	})
}
