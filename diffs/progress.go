package diffs

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// progressCells is the fixed width of the progress bar.
const progressCells = 30

// ProgressBar renders a 30-cell bar of filled and empty glyphs for pct
// (clamped to 0..100).
func ProgressBar(pct int) string {
	pct = max(0, min(pct, 100))
	filled := progressCells * pct / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", progressCells-filled)
}

// DiffPartialUpdate renders the diff of a whole-file rewrite that is still
// streaming.
//
// Every line of origLines except possibly the last must end in "\n";
// violating that panics. When final is false, only the original lines up to
// the last one the update has already reproduced are diffed, and the
// update's trailing (possibly incomplete) line is replaced by a progress line.
// It returns "" when no original line has been reproduced yet.
func DiffPartialUpdate(origLines, updatedLines []string, final bool, name string) string {
	assertNewlines(origLines)
	total := len(origLines)

	cut := total
	if !final {
		var ok bool
		cut, ok = lastNonDeleted(origLines, updatedLines)
		if !ok {
			return ""
		}
	}

	pct := 50
	if total > 0 {
		pct = cut * 100 / total
	}
	barLine := fmt.Sprintf(" %3d / %3d lines [%s] %3d%%\n", cut, total, ProgressBar(pct), pct)

	updated := append([]string(nil), updatedLines...)
	if !final {
		if len(updated) > 0 {
			updated = updated[:len(updated)-1]
		}
		updated = append(updated, barLine)
	}

	body := unifiedBody(strings.Join(origLines[:cut], ""), strings.Join(updated, ""))
	return render(body, name)
}

// lastNonDeleted walks the line diff of original against updated and returns
// the number of original lines up to and including the last one kept
// unchanged. ok is false when none was kept.
func lastNonDeleted(origLines, updatedLines []string) (last int, ok bool) {
	a := splitLines(strings.Join(origLines, ""))
	b := splitLines(strings.Join(updatedLines, ""))

	seen := 0
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		switch op.Tag {
		case 'e':
			seen += op.I2 - op.I1
			last, ok = seen, true
		case 'd', 'r':
			seen += op.I2 - op.I1
		}
	}
	return last, ok
}

func assertNewlines(lines []string) {
	for i := 0; i+1 < len(lines); i++ {
		if !strings.HasSuffix(lines[i], "\n") {
			panic(fmt.Sprintf("diffs: original line %d has no trailing newline", i+1))
		}
	}
}
