package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before a batch
// of changes is reported.
const DefaultDebounce = 200 * time.Millisecond

// DefaultIgnore lists directory names whose contents never produce changes.
var DefaultIgnore = []string{".git", "vendor", "node_modules"}

// Watcher reports changed files under a set of roots. Directories created
// after New are picked up automatically. Symlinks are never followed.
type Watcher struct {
	fs       *fsnotify.Watcher
	roots    []string
	debounce time.Duration
	ignore   []string
	logger   *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithIgnore replaces the ignored directory names.
func WithIgnore(names ...string) Option {
	return func(w *Watcher) { w.ignore = names }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New starts watching every directory under roots.
func New(roots []string, opts ...Option) (*Watcher, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("watch: no paths given")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fs:       fw,
		debounce: DefaultDebounce,
		ignore:   DefaultIgnore,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, root := range roots {
		root = filepath.Clean(root)
		w.roots = append(w.roots, root)
		if err := w.addTree(root); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Close stops the watcher. The channel returned by Changes is closed soon after.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Changes returns a channel of batches of changed file paths. Each batch is
// sorted and free of duplicates. The channel is closed when ctx is done or
// the watcher is closed.
func (w *Watcher) Changes(ctx context.Context) <-chan []string {
	ch := make(chan []string, 1)

	go func() {
		defer close(ch)

		pending := make(map[string]struct{})
		timer := time.NewTimer(w.debounce)
		timer.Stop()
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return

			case event, ok := <-w.fs.Events:
				if !ok {
					return
				}
				if path, ok := w.handle(event); ok {
					pending[path] = struct{}{}
					timer.Reset(w.debounce)
					fire = timer.C
				}

			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", slog.String("error", err.Error()))

			case <-fire:
				fire = nil
				batch := make([]string, 0, len(pending))
				for p := range pending {
					batch = append(batch, p)
				}
				clear(pending)
				slices.Sort(batch)

				select {
				case ch <- batch:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch
}

// Ignored reports whether the relative path lies inside an ignored directory.
func (w *Watcher) Ignored(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if slices.Contains(w.ignore, part) {
			return true
		}
	}
	return false
}

// ignoredPath applies Ignored to path relative to the root containing it.
func (w *Watcher) ignoredPath(path string) bool {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return w.Ignored(rel)
		}
	}
	return w.Ignored(path)
}

// handle filters one event and returns the file to report, if any.
func (w *Watcher) handle(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}
	if w.ignoredPath(event.Name) {
		return "", false
	}

	info, err := os.Lstat(event.Name)
	if err != nil {
		// gone again before we looked
		return "", false
	}
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		return "", false
	case info.IsDir():
		if event.Has(fsnotify.Create) {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("watch new directory",
					slog.String("path", event.Name),
					slog.String("error", err.Error()))
			}
		}
		return "", false
	}

	w.logger.Debug("file changed", slog.String("path", event.Name), slog.String("op", event.Op.String()))
	return event.Name, true
}

// addTree watches root and every non-ignored directory below it. WalkDir
// does not descend into symlinked directories.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignoredPath(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
