// Package commitmsg writes commit messages for staged changes.
//
// Generate asks the model for a conventional commit message describing the
// staged files and the first lines of their diff. If the model fails or
// replies with nothing, a heuristic message is built from the file names.
// Co-authors listed in FIXKIT_CO_AUTHORS (semicolon separated) are appended
// as "Co-authored-by:" trailers.
package commitmsg

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/randalmurphal/fixkit/parser"
	"github.com/randalmurphal/fixkit/prompts"
	"github.com/randalmurphal/fixkit/provider"
	"github.com/randalmurphal/fixkit/vcs"
)

// CoAuthorsEnv names the environment variable holding co-authors.
const CoAuthorsEnv = "FIXKIT_CO_AUTHORS"

// diffLines is how much of the staged diff the model sees.
const diffLines = 20

type options struct {
	logger    *slog.Logger
	coAuthors []string
	envLookup func(string) string
}

// Option configures Generate.
type Option func(*options)

// WithLogger sets the logger used to report model failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCoAuthors sets the co-authors explicitly, ignoring FIXKIT_CO_AUTHORS.
func WithCoAuthors(authors ...string) Option {
	return func(o *options) { o.coAuthors = append([]string{}, authors...) }
}

// Generate returns a commit message for what is staged in repo. p may be
// nil, in which case the heuristic message is used. The only error returned
// is ctx's, when it is cancelled.
func Generate(ctx context.Context, p provider.Provider, repo vcs.Repository, opts ...Option) (string, error) {
	o := options{logger: slog.Default(), envLookup: os.Getenv}
	for _, opt := range opts {
		opt(&o)
	}

	diff, err := repo.DiffStaged()
	if err != nil {
		o.logger.Warn("reading staged diff for commit message", slog.String("error", err.Error()))
		diff = ""
	}
	files := StagedFiles(diff)
	summary := head(diff, diffLines)

	var message string
	if p != nil {
		message, err = ask(ctx, p, files, summary)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			o.logger.Warn("model did not write a commit message, using fallback",
				slog.String("provider", p.Name()),
				slog.String("error", err.Error()))
		}
	}
	if message == "" {
		message = Fallback(files, summary)
	}

	authors := o.coAuthors
	if authors == nil {
		authors = strings.Split(o.envLookup(CoAuthorsEnv), ";")
	}
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			message += "\nCo-authored-by: " + a
		}
	}
	return message, nil
}

func ask(ctx context.Context, p provider.Provider, files []string, summary string) (string, error) {
	ch, err := p.Chat(ctx, prompts.CommitMessage(files, summary))
	if err != nil {
		return "", err
	}
	reply, err := provider.Collect(ctx, ch)
	if err != nil {
		return "", err
	}
	return clean(reply), nil
}

// clean strips whitespace and a surrounding code fence from a reply.
func clean(reply string) string {
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, "```") {
		if body, err := parser.ExtractFenced(reply); err == nil {
			reply = strings.TrimSpace(body)
		}
	}
	return reply
}

// Fallback builds a conventional message from file names alone: a type
// prefix chosen by the kind of files touched, and the first file.
func Fallback(files []string, diff string) string {
	lowerDiff := strings.ToLower(diff)

	var prefix string
	switch {
	case anyFile(files, func(f string) bool { return strings.Contains(f, "test") }):
		prefix = "test"
	case anyFile(files, func(f string) bool { return strings.HasSuffix(f, ".md") }):
		prefix = "docs"
	case strings.Contains(lowerDiff, "fix") || strings.Contains(lowerDiff, "bug"):
		prefix = "fix"
	case !anyFile(files, func(f string) bool { return !isConfigFile(f) }):
		prefix = "chore"
	default:
		prefix = "feat"
	}

	if len(files) > 0 {
		return prefix + ": update " + files[0]
	}
	return prefix + ": update"
}

func isConfigFile(f string) bool {
	return strings.HasSuffix(f, ".toml") || strings.HasSuffix(f, ".json") || strings.HasSuffix(f, ".yaml")
}

func anyFile(files []string, pred func(string) bool) bool {
	for _, f := range files {
		if pred(f) {
			return true
		}
	}
	return false
}

// StagedFiles lists the paths named by "diff --git" headers, in order.
func StagedFiles(diff string) []string {
	var files []string
	for _, line := range strings.Split(diff, "\n") {
		rest, ok := strings.CutPrefix(line, "diff --git ")
		if !ok {
			continue
		}
		if i := strings.LastIndex(rest, " b/"); i >= 0 {
			files = append(files, rest[i+len(" b/"):])
		}
	}
	return files
}

func head(text string, n int) string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
