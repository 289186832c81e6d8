package edit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/randalmurphal/fixkit/commitmsg"
	"github.com/randalmurphal/fixkit/diffs"
	"github.com/randalmurphal/fixkit/parser"
	"github.com/randalmurphal/fixkit/patch"
	"github.com/randalmurphal/fixkit/prompts"
	"github.com/randalmurphal/fixkit/provider"
	"github.com/randalmurphal/fixkit/tokens"
	"github.com/randalmurphal/fixkit/vcs"
)

// Mode records which strategy produced an edit.
type Mode int

const (
	// ModeDiff means the model's unified diff was applied.
	ModeDiff Mode = iota

	// ModeWhole means the model rewrote the whole file.
	ModeWhole
)

// String returns "diff" or "whole".
func (m Mode) String() string {
	if m == ModeWhole {
		return "whole"
	}
	return "diff"
}

// Outcome describes a committed edit.
type Outcome struct {
	// Diff is the working-tree diff taken after writing, before staging.
	Diff string

	// Revision is the commit created for the edit.
	Revision string

	// Mode is the strategy that produced the edit.
	Mode Mode

	// Message is the commit message used.
	Message string
}

// Editor applies model-generated edits to files in a repository.
type Editor struct {
	provider provider.Provider
	repo     vcs.Repository
	logger   *slog.Logger
	progress func(string)
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithProgress receives rendered diffs while a whole-file reply streams.
// Intermediate renders end with a progress bar line; the last one is the
// final diff.
func WithProgress(fn func(update string)) Option {
	return func(e *Editor) { e.progress = fn }
}

// New creates an Editor.
func New(p provider.Provider, repo vcs.Repository, opts ...Option) *Editor {
	e := &Editor{
		provider: p,
		repo:     repo,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyDiffEdit asks for changeRequest as a unified diff against file and
// commits the result with commitMessage. An empty commitMessage is
// generated from the staged change.
//
// Replies without a diff block (parser.ErrMissingFence), with malformed or
// no hunks for file (patch.ErrParse), or with hunks that do not match
// (patch.ErrApply) fall back to ApplyWholeFileEdit with the same arguments.
func (e *Editor) ApplyDiffEdit(ctx context.Context, file, changeRequest, commitMessage string) (*Outcome, error) {
	abs, rel, err := e.resolve(file)
	if err != nil {
		return nil, err
	}
	current, err := readCurrent(abs)
	if err != nil {
		return nil, err
	}

	reply, err := e.chat(ctx, prompts.DiffEdit(rel, current, changeRequest), nil)
	if err != nil {
		return nil, err
	}

	updated, err := applyReply(reply, rel, current, e.logger)
	if err != nil {
		if !isFallbackError(err) {
			return nil, err
		}
		e.logger.Warn("diff edit failed, falling back to whole-file edit",
			slog.String("file", rel),
			slog.String("error", err.Error()))
		return e.ApplyWholeFileEdit(ctx, file, changeRequest, commitMessage)
	}

	return e.commit(ctx, abs, rel, updated, commitMessage, ModeDiff)
}

// ApplyWholeFileEdit asks for the complete new contents of file and
// commits them with commitMessage. A reply without a fenced block fails
// with parser.ErrMissingFence and nothing is written.
func (e *Editor) ApplyWholeFileEdit(ctx context.Context, file, changeRequest, commitMessage string) (*Outcome, error) {
	abs, rel, err := e.resolve(file)
	if err != nil {
		return nil, err
	}
	current, err := readCurrent(abs)
	if err != nil {
		return nil, err
	}

	var onText func(string)
	origLines := splitLines(current)
	if e.progress != nil {
		onText = func(sofar string) {
			body, ok := partialFenced(sofar)
			if !ok {
				return
			}
			if update := diffs.DiffPartialUpdate(origLines, splitLines(body), false, rel); update != "" {
				e.progress(update)
			}
		}
	}

	reply, err := e.chat(ctx, prompts.WholeFile(rel, current, changeRequest), onText)
	if err != nil {
		return nil, err
	}

	content, err := parser.ExtractFenced(reply)
	if err != nil {
		return nil, fmt.Errorf("whole-file edit of %s: %w", rel, err)
	}
	if e.progress != nil {
		e.progress(diffs.DiffPartialUpdate(origLines, splitLines(content), true, rel))
	}

	return e.commit(ctx, abs, rel, content, commitMessage, ModeWhole)
}

// chat sends prompt and buffers the whole reply.
func (e *Editor) chat(ctx context.Context, prompt string, onText func(string)) (string, error) {
	e.logger.Debug("sending prompt",
		slog.String("provider", e.provider.Name()),
		slog.Int("tokens", tokens.Estimate(prompt)))
	ch, err := e.provider.Chat(ctx, prompt)
	if err != nil {
		return "", err
	}
	return provider.CollectFunc(ctx, ch, onText)
}

// commit writes content, records the diff, stages and commits.
func (e *Editor) commit(ctx context.Context, abs, rel, content, message string, mode Mode) (*Outcome, error) {
	if err := writeFile(abs, content); err != nil {
		return nil, err
	}

	diff, err := e.repo.DiffUnstaged()
	if err != nil {
		return nil, err
	}
	if err := e.repo.Stage(rel); err != nil {
		return nil, err
	}

	if message == "" {
		message, err = commitmsg.Generate(ctx, e.provider, e.repo, commitmsg.WithLogger(e.logger))
		if err != nil {
			return nil, err
		}
	}

	rev, err := e.repo.Commit(message)
	if err != nil {
		return nil, err
	}

	e.logger.Info("edit committed",
		slog.String("file", rel),
		slog.String("mode", mode.String()),
		slog.String("revision", rev))

	return &Outcome{Diff: diff, Revision: rev, Mode: mode, Message: message}, nil
}

// resolve returns the absolute path of file and its slash-separated path
// relative to the repository root.
func (e *Editor) resolve(file string) (abs, rel string, err error) {
	root := e.repo.Root()
	if filepath.IsAbs(file) {
		abs = filepath.Clean(file)
	} else {
		abs = filepath.Join(root, file)
	}
	if r, ok := within(root, abs); ok {
		return abs, r, nil
	}
	// the root reported by git has symlinks resolved
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		if r, ok := within(root, filepath.Join(dir, filepath.Base(abs))); ok {
			return abs, r, nil
		}
	}
	return "", "", fmt.Errorf("%s is outside the repository %s", file, root)
}

func within(root, path string) (string, bool) {
	r, err := filepath.Rel(root, path)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(r), true
}

// applyReply applies the reply's hunks for rel to current, in memory.
func applyReply(reply, rel, current string, logger *slog.Logger) (string, error) {
	if !strings.Contains(reply, "```diff") {
		return "", fmt.Errorf("%w: reply has no diff block", parser.ErrMissingFence)
	}

	var hunks []patch.Hunk
	for _, fh := range parser.FindDiffs(reply) {
		if !targets(fh.Path, rel) {
			logger.Debug("ignoring hunk for another file",
				slog.String("file", rel),
				slog.String("hunk_path", fh.Path))
			continue
		}
		h, err := patch.ParseHunk(fh)
		if err != nil {
			return "", err
		}
		hunks = append(hunks, h)
	}
	if len(hunks) == 0 {
		return "", fmt.Errorf("%w: no hunks for %s", patch.ErrParse, rel)
	}

	return patch.Apply(current, hunks...)
}

// targets reports whether a hunk's header path names rel. An empty path
// (no header) always matches; otherwise one cleaned path must be a
// slash-aligned suffix of the other.
func targets(hunkPath, rel string) bool {
	if hunkPath == "" {
		return true
	}
	p := path.Clean(filepath.ToSlash(hunkPath))
	p = strings.TrimPrefix(p, "./")
	if p == rel {
		return true
	}
	return strings.HasSuffix("/"+p, "/"+rel) || strings.HasSuffix("/"+rel, "/"+p)
}

func isFallbackError(err error) bool {
	return errors.Is(err, parser.ErrMissingFence) ||
		errors.Is(err, patch.ErrParse) ||
		errors.Is(err, patch.ErrApply)
}

// readCurrent returns the file's contents, or "" if it does not exist yet.
func readCurrent(abs string) (string, error) {
	data, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", abs, err)
	}
	return string(data), nil
}

// writeFile replaces abs with content, keeping an existing file's mode and
// creating parent directories as needed.
func writeFile(abs, content string) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(abs); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", abs, err)
	}
	if err := os.WriteFile(abs, []byte(content), perm); err != nil {
		return fmt.Errorf("write %s: %w", abs, err)
	}
	return nil
}

// partialFenced returns the body of the first fenced block in a reply that
// may still be streaming. ok is false until the opening fence line is
// complete.
func partialFenced(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	nl := strings.IndexByte(text[start:], '\n')
	if nl < 0 {
		return "", false
	}
	body := text[start+nl+1:]
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return body, true
}

// splitLines splits s into lines, keeping each line's "\n".
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
