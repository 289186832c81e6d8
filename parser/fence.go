package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingFence is returned when a reply has no complete fenced block.
var ErrMissingFence = errors.New("missing code fence")

const fenceTicks = "```"

// ExtractFenced returns the body of the first fenced block in text.
//
// The opening fence is the first run of three or more backticks; anything
// after it on the same line is the info string and is ignored. The body runs
// until the next occurrence of a backtick run of the same length. The body is
// returned verbatim and may be empty.
func ExtractFenced(text string) (string, error) {
	start := strings.Index(text, fenceTicks)
	if start < 0 {
		return "", fmt.Errorf("%w: no opening fence", ErrMissingFence)
	}

	width := len(fenceTicks)
	for start+width < len(text) && text[start+width] == '`' {
		width++
	}
	fence := text[start : start+width]

	rest := text[start+width:]
	newline := strings.IndexByte(rest, '\n')
	if newline < 0 {
		return "", fmt.Errorf("%w: no newline after opening fence", ErrMissingFence)
	}

	body := rest[newline+1:]
	end := strings.Index(body, fence)
	if end < 0 {
		return "", fmt.Errorf("%w: no closing fence", ErrMissingFence)
	}
	return body[:end], nil
}
