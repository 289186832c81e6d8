package runner

import (
	"fmt"
	"strings"
)

// SummarizeOutput returns the first n lines of text followed by
// "\n(exit status: <status>)".
func SummarizeOutput(text string, n int, status int) string {
	lines := strings.Split(text, "\n")
	if strings.HasSuffix(text, "\n") || text == "" {
		lines = lines[:len(lines)-1]
	}
	if n < len(lines) {
		lines = lines[:max(n, 0)]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return strings.Join(lines, "\n") + fmt.Sprintf("\n(exit status: %d)", status)
}
