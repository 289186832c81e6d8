package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/randalmurphal/fixkit/parser"
)

// Collect drains ch and returns the full reply text.
//
// If ctx is cancelled before the channel closes, the partial reply is
// discarded and the error wraps both parser.ErrMissingFence (the reply can
// never contain a complete fence) and ctx.Err(). A chunk carrying any other
// error aborts with an error wrapping ErrStream.
func Collect(ctx context.Context, ch <-chan StreamChunk) (string, error) {
	return CollectFunc(ctx, ch, nil)
}

// CollectFunc is Collect with a callback that receives the accumulated text
// after every non-empty chunk.
func CollectFunc(ctx context.Context, ch <-chan StreamChunk, onText func(sofar string)) (string, error) {
	var b strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return "", interrupted(err)
		}

		select {
		case <-ctx.Done():
			return "", interrupted(ctx.Err())
		case chunk, ok := <-ch:
			if !ok {
				return b.String(), nil
			}
			if chunk.Error != nil {
				if isCancellation(chunk.Error) {
					return "", interrupted(chunk.Error)
				}
				return "", fmt.Errorf("%w: %w", ErrStream, chunk.Error)
			}
			if chunk.Content != "" {
				b.WriteString(chunk.Content)
				if onText != nil {
					onText(b.String())
				}
			}
		}
	}
}

func interrupted(err error) error {
	return fmt.Errorf("%w: reply interrupted: %w", parser.ErrMissingFence, err)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
