package parser

import (
	"strings"
)

// FileHunk is one hunk extracted from a ```diff block.
type FileHunk struct {
	// Path is the logical file name from the nearest preceding header pair.
	// Empty when the block had no header.
	Path string

	// Lines are the hunk body lines (context, added, removed) with their
	// line terminators. The @@ line itself is not included.
	Lines []string
}

// FindDiffs parses every fenced diff block in content and returns its hunks
// in encounter order.
//
// A block may hold several header/hunk groups; each new "--- "/"+++ " pair
// switches the file name for the hunks that follow it. A file appears once
// per hunk. Header names are trimmed but never split on inner whitespace.
func FindDiffs(content string) []FileHunk {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	lines := splitLines(content)

	var hunks []FileHunk
	for i := 0; i < len(lines); {
		if !strings.HasPrefix(lines[i], "```diff") {
			i++
			continue
		}
		i++

		var block []string
		for i < len(lines) && !strings.HasPrefix(lines[i], "```") {
			block = append(block, lines[i])
			i++
		}
		if i < len(lines) {
			i++ // closing fence
		}

		hunks = append(hunks, blockHunks(block)...)
	}

	return hunks
}

// blockHunks scans the lines of a single diff block.
func blockHunks(block []string) []FileHunk {
	var hunks []FileHunk
	current := ""

	for j := 0; j < len(block); {
		if isHeaderPair(block, j) {
			current = headerPath(block[j], block[j+1])
			j += 2
			continue
		}
		if !strings.HasPrefix(block[j], "@@") {
			j++
			continue
		}

		j++
		var lines []string
		for j < len(block) && !endsHunk(block, j) {
			lines = append(lines, block[j])
			j++
		}
		if len(lines) > 0 {
			hunks = append(hunks, FileHunk{Path: current, Lines: lines})
		}
	}

	return hunks
}

// endsHunk reports whether line j starts something other than hunk body.
func endsHunk(block []string, j int) bool {
	if strings.HasPrefix(block[j], "@@") || isHeaderPair(block, j) {
		return true
	}
	// a blank separator line directly before the next file's header
	return strings.TrimSpace(block[j]) == "" && isHeaderPair(block, j+1)
}

func isHeaderPair(block []string, j int) bool {
	return j+1 < len(block) &&
		strings.HasPrefix(block[j], "--- ") &&
		strings.HasPrefix(block[j+1], "+++ ")
}

// headerPath resolves the logical file name of a header pair.
func headerPath(minus, plus string) string {
	a := strings.TrimSpace(minus[4:])
	b := strings.TrimSpace(plus[4:])
	if (strings.HasPrefix(a, "a/") || a == "/dev/null") && strings.HasPrefix(b, "b/") {
		return b[2:]
	}
	return b
}

// splitLines splits s into lines, keeping each line's "\n".
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
