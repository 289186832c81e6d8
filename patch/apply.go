package patch

import (
	"fmt"
	"strings"
)

// Apply applies hunks to content in order and returns the patched text.
//
// Each hunk's before block is located in the content produced by the
// previous hunk. The first line-aligned exact occurrence wins. Failing that,
// lines are compared with whitespace normalized, and finally with blank
// lines ignored as well. A loose match keeps the file's own context lines
// and any blank lines it skipped, and shifts added lines by the indentation
// difference between the hunk and the file; if that difference is not the
// same on every matched line the hunk does not apply. A hunk with no before
// block (only additions) is appended to the end. If any hunk cannot be
// located the error wraps ErrApply and content is left untouched.
func Apply(content string, hunks ...Hunk) (string, error) {
	for i, h := range hunks {
		updated, err := applyHunk(content, h)
		if err != nil {
			return "", fmt.Errorf("hunk %d of %d: %w", i+1, len(hunks), err)
		}
		content = updated
	}
	return content, nil
}

func applyHunk(content string, h Hunk) (string, error) {
	if !h.HasChanges() {
		return content, nil
	}

	before, after := h.Before(), h.After()
	if strings.TrimSpace(before) == "" {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return content + after, nil
	}

	if idx := indexLineAligned(content, before); idx >= 0 {
		return content[:idx] + after + content[idx+len(before):], nil
	}

	lines := splitLines(content)
	var block []string
	for _, l := range h.Lines {
		if l.Kind != Added {
			block = append(block, l.Text)
		}
	}
	for _, skipBlank := range []bool{false, true} {
		pos, ok := matchBlock(lines, block, skipBlank)
		if !ok {
			continue
		}
		patched, ok := splice(lines, h, pos)
		if !ok {
			return "", fmt.Errorf("%w: %s: indentation differs inconsistently from the file",
				ErrApply, displayPath(h.Path))
		}
		return patched, nil
	}

	return "", fmt.Errorf("%w: %s: %d line(s) of context and removals not found",
		ErrApply, displayPath(h.Path), len(block))
}

// indexLineAligned finds needle in s where it starts at the beginning of a
// line and ends at the end of one.
func indexLineAligned(s, needle string) int {
	for offset := 0; offset <= len(s)-len(needle); {
		i := strings.Index(s[offset:], needle)
		if i < 0 {
			return -1
		}
		idx := offset + i
		end := idx + len(needle)
		startOK := idx == 0 || s[idx-1] == '\n'
		endOK := strings.HasSuffix(needle, "\n") || end == len(s) || s[end] == '\n'
		if startOK && endOK {
			return idx
		}
		offset = idx + 1
	}
	return -1
}

// matchBlock finds block in source comparing whitespace-normalized lines.
// pos[i] is the source line matched by block[i]. With skipBlank, blank lines
// on both sides are ignored and a skipped block line has pos -1.
func matchBlock(source, block []string, skipBlank bool) (pos []int, ok bool) {
	type numbered struct {
		text string
		line int
	}
	filter := func(lines []string) []numbered {
		out := make([]numbered, 0, len(lines))
		for i, l := range lines {
			n := normalizeLine(l)
			if skipBlank && n == "" {
				continue
			}
			out = append(out, numbered{text: n, line: i})
		}
		return out
	}

	src := filter(source)
	want := filter(block)
	if len(want) == 0 {
		return nil, false
	}

	for i := 0; i+len(want) <= len(src); i++ {
		match := true
		for j := range want {
			if src[i+j].text != want[j].text {
				match = false
				break
			}
		}
		if match {
			pos = make([]int, len(block))
			for k := range pos {
				pos[k] = -1
			}
			for j := range want {
				pos[want[j].line] = src[i+j].line
			}
			return pos, true
		}
	}
	return nil, false
}

// splice rewrites the matched span of lines with h applied. pos maps the
// hunk's context and removed lines, in order, to source lines.
func splice(lines []string, h Hunk, pos []int) (string, bool) {
	shift, ok := indentShift(lines, h, pos)
	if !ok {
		return "", false
	}

	start, end := -1, -1
	for _, p := range pos {
		if p < 0 {
			continue
		}
		if start < 0 {
			start = p
		}
		end = p + 1
	}

	out := append([]string(nil), lines[:start]...)
	cur, k := start, 0
	for _, l := range h.Lines {
		if l.Kind == Added {
			text, ok := shift.apply(l.Text)
			if !ok {
				return "", false
			}
			out = append(out, text)
			continue
		}
		p := pos[k]
		k++
		if p < 0 {
			continue
		}
		// blank lines the match skipped over stay in place
		out = append(out, lines[cur:p]...)
		if l.Kind == Context {
			out = append(out, lines[p])
		}
		cur = p + 1
	}
	out = append(out, lines[end:]...)
	return joinLines(out), true
}

// reindent maps hunk indentation onto file indentation by dropping one
// prefix and adding another.
type reindent struct {
	drop, add string
}

func (r reindent) indent(ws string) (string, bool) {
	if !strings.HasPrefix(ws, r.drop) {
		return "", false
	}
	return r.add + ws[len(r.drop):], true
}

func (r reindent) apply(line string) (string, bool) {
	if strings.TrimSpace(line) == "" {
		return line, true
	}
	ws := leadingSpace(line)
	shifted, ok := r.indent(ws)
	if !ok {
		return "", false
	}
	return shifted + line[len(ws):], true
}

// indentShift derives the reindent from the first non-blank matched line and
// checks that it holds for every other one.
func indentShift(lines []string, h Hunk, pos []int) (reindent, bool) {
	var (
		shift reindent
		found bool
		k     int
	)
	for _, l := range h.Lines {
		if l.Kind == Added {
			continue
		}
		p := pos[k]
		k++
		if p < 0 || strings.TrimSpace(l.Text) == "" {
			continue
		}
		hw, sw := leadingSpace(l.Text), leadingSpace(lines[p])
		if !found {
			switch {
			case strings.HasSuffix(sw, hw):
				shift = reindent{add: sw[:len(sw)-len(hw)]}
			case strings.HasSuffix(hw, sw):
				shift = reindent{drop: hw[:len(hw)-len(sw)]}
			default:
				return reindent{}, false
			}
			found = true
		}
		if got, ok := shift.indent(hw); !ok || got != sw {
			return reindent{}, false
		}
	}
	return shift, true
}

func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// normalizeLine trims a line and collapses internal whitespace runs.
func normalizeLine(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// joinLines concatenates lines, terminating any but the last that lacks "\n".
func joinLines(lines []string) string {
	var b strings.Builder
	for i, l := range lines {
		b.WriteString(l)
		if i < len(lines)-1 && !strings.HasSuffix(l, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// splitLines splits s into lines, keeping each line's "\n".
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
