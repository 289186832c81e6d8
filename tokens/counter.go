package tokens

import (
	"unicode/utf8"
)

// DefaultCharsPerToken is the characters-per-token ratio used for estimates.
const DefaultCharsPerToken = 4.0

// Counter counts tokens in text.
type Counter interface {
	// Count returns the number of tokens in text.
	Count(text string) int

	// FitsInLimit reports whether text has at most limit tokens.
	FitsInLimit(text string, limit int) bool
}

// EstimatingCounter estimates tokens from the rune count.
type EstimatingCounter struct {
	CharsPerToken float64
}

// NewEstimatingCounter returns a counter using DefaultCharsPerToken.
func NewEstimatingCounter() *EstimatingCounter {
	return &EstimatingCounter{CharsPerToken: DefaultCharsPerToken}
}

// Count implements Counter, rounding to the nearest token.
func (c *EstimatingCounter) Count(text string) int {
	ratio := c.CharsPerToken
	if ratio <= 0 {
		ratio = DefaultCharsPerToken
	}
	return int(float64(utf8.RuneCountInString(text))/ratio + 0.5)
}

// FitsInLimit implements Counter.
func (c *EstimatingCounter) FitsInLimit(text string, limit int) bool {
	return c.Count(text) <= limit
}

// Estimate returns the estimated token count of text.
func Estimate(text string) int {
	return NewEstimatingCounter().Count(text)
}
