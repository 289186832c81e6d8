package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
)

// Handler acts on the change request built for one file. file is relative
// to the root given to Serve.
type Handler func(ctx context.Context, file, request string) error

// Serve reads batches from changes until the channel closes or ctx is done.
// Every changed file with AI! comments is passed to h, one at a time. A file
// whose contents have not changed since it was last handled is skipped, so
// a handler that leaves the comments in place does not loop. Handler errors
// are logged and do not stop Serve.
func Serve(ctx context.Context, changes <-chan []string, root string, h Handler, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	handled := make(map[string]string)

	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-changes:
			if !ok {
				return
			}
			for _, path := range batch {
				if ctx.Err() != nil {
					return
				}
				serveFile(ctx, root, path, h, handled, logger)
			}
		}
	}
}

func serveFile(ctx context.Context, root, path string, h Handler, handled map[string]string, logger *slog.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("skip unreadable file", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	content := string(data)
	if prev, ok := handled[path]; ok && prev == content {
		return
	}

	comments := FindAIComments(content)
	if len(comments) == 0 {
		return
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	logger.Info("AI comments found", slog.String("file", rel), slog.Int("count", len(comments)))
	handled[path] = content

	if err := h(ctx, rel, CodePrompt(rel, comments)); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return
		}
		logger.Warn("watch handler failed", slog.String("file", rel), slog.String("error", err.Error()))
	}

	// remember what the handler left behind, not what triggered it
	if after, err := os.ReadFile(path); err == nil {
		handled[path] = string(after)
	}
}
