package tokens

import "strings"

// Strategy selects which part of the text survives truncation.
type Strategy int

const (
	// FromEnd keeps the beginning of the text.
	FromEnd Strategy = iota

	// FromMiddle keeps the beginning and the end.
	FromMiddle
)

// Markers inserted where text was removed.
const (
	EndMarker    = "..."
	MiddleMarker = "\n...[output truncated]...\n"
)

// Truncator trims text to a token limit.
type Truncator struct {
	counter  Counter
	strategy Strategy
	marker   string
}

// NewTruncator returns a Truncator with the estimating counter and the
// default marker for strategy.
func NewTruncator(strategy Strategy) *Truncator {
	marker := EndMarker
	if strategy == FromMiddle {
		marker = MiddleMarker
	}
	return &Truncator{counter: NewEstimatingCounter(), strategy: strategy, marker: marker}
}

// WithCounter replaces the counter.
func (t *Truncator) WithCounter(c Counter) *Truncator {
	t.counter = c
	return t
}

// Truncate returns text trimmed to maxTokens including the marker, and
// whether anything was removed.
func (t *Truncator) Truncate(text string, maxTokens int) (string, bool) {
	if t.counter.FitsInLimit(text, maxTokens) {
		return text, false
	}
	budget := maxTokens - t.counter.Count(t.marker)
	if budget <= 0 {
		return t.marker, true
	}

	runes := []rune(text)
	if t.strategy == FromMiddle {
		head := t.prefixRunes(runes, budget/2)
		tail := t.suffixRunes(runes[head:], budget-budget/2)
		var b strings.Builder
		b.WriteString(string(runes[:head]))
		b.WriteString(t.marker)
		b.WriteString(string(runes[len(runes)-tail:]))
		return b.String(), true
	}
	return string(runes[:t.prefixRunes(runes, budget)]) + t.marker, true
}

// prefixRunes is the longest prefix of runes that fits in limit tokens.
func (t *Truncator) prefixRunes(runes []rune, limit int) int {
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if t.counter.FitsInLimit(string(runes[:mid]), limit) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// suffixRunes is the length of the longest suffix of runes that fits.
func (t *Truncator) suffixRunes(runes []rune, limit int) int {
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if t.counter.FitsInLimit(string(runes[len(runes)-mid:]), limit) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
