package patch

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/fixkit/parser"
)

// LineKind classifies a hunk line.
type LineKind int

const (
	// Context lines appear unchanged on both sides.
	Context LineKind = iota

	// Added lines appear only in the updated content.
	Added

	// Removed lines appear only in the original content.
	Removed
)

// String returns the diff prefix for the kind.
func (k LineKind) String() string {
	switch k {
	case Added:
		return "+"
	case Removed:
		return "-"
	default:
		return " "
	}
}

// Line is one hunk line without its diff prefix.
type Line struct {
	Kind LineKind

	// Text keeps the line terminator, if the line had one.
	Text string
}

// Hunk is a parsed, typed diff hunk belonging to a single file.
type Hunk struct {
	Path  string
	Lines []Line
}

// ParseHunk converts an extracted hunk into typed lines.
//
// Blank lines with no prefix are read as blank context lines, since models
// routinely drop the leading space. A "\ No newline at end of file" marker
// strips the terminator from the preceding line. Any other line without a
// " ", "+" or "-" prefix is an error wrapping ErrParse.
func ParseHunk(h parser.FileHunk) (Hunk, error) {
	if len(h.Lines) == 0 {
		return Hunk{}, fmt.Errorf("%w: %s: empty hunk", ErrParse, displayPath(h.Path))
	}

	out := Hunk{Path: h.Path, Lines: make([]Line, 0, len(h.Lines))}
	for i, raw := range h.Lines {
		switch {
		case strings.TrimRight(raw, "\r\n") == "":
			out.Lines = append(out.Lines, Line{Kind: Context, Text: "\n"})
		case strings.HasPrefix(raw, `\`):
			if n := len(out.Lines); n > 0 {
				out.Lines[n-1].Text = strings.TrimSuffix(out.Lines[n-1].Text, "\n")
			}
		case raw[0] == ' ':
			out.Lines = append(out.Lines, Line{Kind: Context, Text: raw[1:]})
		case raw[0] == '+':
			out.Lines = append(out.Lines, Line{Kind: Added, Text: raw[1:]})
		case raw[0] == '-':
			out.Lines = append(out.Lines, Line{Kind: Removed, Text: raw[1:]})
		default:
			return Hunk{}, fmt.Errorf("%w: %s: line %d has no diff prefix: %q",
				ErrParse, displayPath(h.Path), i+1, strings.TrimRight(raw, "\n"))
		}
	}
	return out, nil
}

// Before returns the text the hunk expects to find (context and removed lines).
func (h Hunk) Before() string {
	return h.join(Removed)
}

// After returns the text the hunk leaves behind (context and added lines).
func (h Hunk) After() string {
	return h.join(Added)
}

// HasChanges reports whether the hunk adds or removes anything.
func (h Hunk) HasChanges() bool {
	for _, l := range h.Lines {
		if l.Kind != Context {
			return true
		}
	}
	return false
}

// String renders the hunk back to diff lines (without an @@ header).
func (h Hunk) String() string {
	var b strings.Builder
	for _, l := range h.Lines {
		b.WriteString(l.Kind.String())
		b.WriteString(l.Text)
		if !strings.HasSuffix(l.Text, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (h Hunk) join(side LineKind) string {
	var b strings.Builder
	for _, l := range h.Lines {
		if l.Kind == Context || l.Kind == side {
			b.WriteString(l.Text)
		}
	}
	return b.String()
}

func displayPath(p string) string {
	if p == "" {
		return "<unnamed>"
	}
	return p
}
