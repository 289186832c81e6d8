package watch

import (
	"regexp"
	"strings"

	"github.com/randalmurphal/fixkit/prompts"
)

// Marker flags a comment line as an instruction for the model.
const Marker = "AI!"

// commentPattern matches the first comment on a line for the common
// line-comment styles: //, #, -- and ;.
var commentPattern = regexp.MustCompile(`(?://|#|--|;+)\s*(.*?)\s*$`)

// Comment is one marked comment line.
type Comment struct {
	// Line is 1-based.
	Line int

	// Text is the whole source line without its terminator.
	Text string
}

// FindAIComments returns the comment lines of content whose comment text
// starts or ends with "AI!" (case-insensitive).
func FindAIComments(content string) []Comment {
	var out []Comment
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		m := commentPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.ToUpper(m[1])
		if strings.HasPrefix(text, Marker) || strings.HasSuffix(text, Marker) {
			out = append(out, Comment{Line: i + 1, Text: line})
		}
	}
	return out
}

// CodePrompt builds the change request for file from its marked comments,
// prefixing each with "█". It returns "" when there are none.
func CodePrompt(file string, comments []Comment) string {
	if len(comments) == 0 {
		return ""
	}
	marked := make([]string, len(comments))
	for i, c := range comments {
		marked[i] = "█ " + strings.TrimSpace(c.Text)
	}
	return prompts.WatchRequest(file, marked)
}
