package vcs

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Identity used for commits when the repository has none configured.
const (
	DefaultAuthorName  = "fixkit"
	DefaultAuthorEmail = "fixkit@localhost"
)

// Git implements Repository for a git working tree.
type Git struct {
	git    GitRunner
	root   string
	logger *slog.Logger
}

// Option configures a Git repository handle.
type Option func(*Git)

// WithRunner substitutes the GitRunner (tests use a fake).
func WithRunner(r GitRunner) Option {
	return func(g *Git) { g.git = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Git) {
		if l != nil {
			g.logger = l
		}
	}
}

// Open returns the repository containing dir. The root is resolved with
// "git rev-parse --show-toplevel", so dir may be any directory inside it.
func Open(dir string, opts ...Option) (*Git, error) {
	g := &Git{git: &ExecGit{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}

	out, err := g.git.Run(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrGit, dir, err)
	}
	g.root = filepath.Clean(strings.TrimSpace(out))
	return g, nil
}

// Root implements Repository.
func (g *Git) Root() string {
	return g.root
}

// Stage implements Repository.
func (g *Git) Stage(path string) error {
	rel, err := g.relative(path)
	if err != nil {
		return err
	}
	if _, err := g.git.Run(g.root, "add", "--", rel); err != nil {
		return fmt.Errorf("%w: stage %s: %w", ErrGit, rel, err)
	}
	return nil
}

// Commit implements Repository. The commit is created even when nothing is
// staged, and falls back to the default identity when user.name or
// user.email is unset.
func (g *Git) Commit(message string) (string, error) {
	args := g.identityArgs()
	args = append(args, "commit", "--allow-empty", "--quiet", "-m", message)
	if _, err := g.git.Run(g.root, args...); err != nil {
		return "", fmt.Errorf("%w: commit: %w", ErrGit, err)
	}

	rev, err := g.git.Run(g.root, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("%w: resolve HEAD: %w", ErrGit, err)
	}
	rev = strings.TrimSpace(rev)

	g.logger.Debug("committed", slog.String("revision", rev), slog.String("root", g.root))
	return rev, nil
}

// DiffUnstaged implements Repository.
func (g *Git) DiffUnstaged() (string, error) {
	out, err := g.git.Run(g.root, "diff")
	if err != nil {
		return "", fmt.Errorf("%w: diff: %w", ErrGit, err)
	}
	return out, nil
}

// DiffStaged implements Repository.
func (g *Git) DiffStaged() (string, error) {
	out, err := g.git.Run(g.root, "diff", "--cached")
	if err != nil {
		return "", fmt.Errorf("%w: diff --cached: %w", ErrGit, err)
	}
	return out, nil
}

// identityArgs returns "-c key=value" pairs for identity fields git would
// otherwise refuse to commit without.
func (g *Git) identityArgs() []string {
	var args []string
	for _, kv := range [][2]string{
		{"user.name", DefaultAuthorName},
		{"user.email", DefaultAuthorEmail},
	} {
		out, err := g.git.Run(g.root, "config", "--get", kv[0])
		if err == nil && strings.TrimSpace(out) != "" {
			continue
		}
		args = append(args, "-c", kv[0]+"="+kv[1])
	}
	return args
}

// relative maps path onto the working tree, rejecting paths outside it.
func (g *Git) relative(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(filepath.Clean(path)), nil
	}
	if rel, ok := within(g.root, path); ok {
		return rel, nil
	}
	// the root reported by git has symlinks resolved
	if dir, err := filepath.EvalSymlinks(filepath.Dir(path)); err == nil {
		if rel, ok := within(g.root, filepath.Join(dir, filepath.Base(path))); ok {
			return rel, nil
		}
	}
	return "", fmt.Errorf("%w: %s is outside %s", ErrGit, path, g.root)
}

func within(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
