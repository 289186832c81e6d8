package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultTimeout bounds each command a ShellRunner executes.
const DefaultTimeout = 10 * time.Minute

// TimeoutStatus is the Status reported for a command killed by the timeout.
const TimeoutStatus = -1

// ErrSpawn indicates a command could not be started.
var ErrSpawn = errors.New("command could not be started")

// CommandResult is the outcome of one lint or test command.
type CommandResult struct {
	// Command is the command line as configured.
	Command string `json:"command"`

	// Output is stdout followed by stderr.
	Output string `json:"output"`

	// Status is the exit status. 0 means success.
	Status int `json:"status"`
}

// Failed reports whether the command exited non-zero.
func (r CommandResult) Failed() bool {
	return r.Status != 0
}

// FirstFailure returns the first failed result, if any.
func FirstFailure(results []CommandResult) (CommandResult, bool) {
	for _, r := range results {
		if r.Failed() {
			return r, true
		}
	}
	return CommandResult{}, false
}

// Runner runs a project's lint and test commands.
type Runner interface {
	// Name identifies the runner (e.g., "cargo", "npm").
	Name() string

	// Run executes the lint and test commands not skipped and returns one
	// result per command executed.
	Run(ctx context.Context, skipLint, skipTest bool) ([]CommandResult, error)
}

// Order selects whether lint or test commands run first.
type Order int

const (
	// LintFirst runs lint commands before test commands.
	LintFirst Order = iota

	// TestFirst runs test commands before lint commands.
	TestFirst
)

// String returns the order name used in configuration.
func (o Order) String() string {
	if o == TestFirst {
		return "test-first"
	}
	return "lint-first"
}

// ParseOrder parses "lint-first" or "test-first". Empty means LintFirst.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "lint-first":
		return LintFirst, nil
	case "test-first":
		return TestFirst, nil
	}
	return LintFirst, fmt.Errorf("unknown runner order %q", s)
}

// ShellRunner runs configured shell commands in a project root.
type ShellRunner struct {
	name    string
	root    string
	lint    []string
	test    []string
	order   Order
	timeout time.Duration
	cmd     CommandRunner
	logger  *slog.Logger
}

// Option configures a ShellRunner.
type Option func(*ShellRunner)

// WithLint sets the lint commands.
func WithLint(commands ...string) Option {
	return func(r *ShellRunner) { r.lint = commands }
}

// WithTest sets the test commands.
func WithTest(commands ...string) Option {
	return func(r *ShellRunner) { r.test = commands }
}

// WithOrder sets which group runs first.
func WithOrder(o Order) Option {
	return func(r *ShellRunner) { r.order = o }
}

// WithTimeout bounds each command. Values <= 0 keep DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *ShellRunner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithCommandRunner substitutes command execution (tests use a fake).
func WithCommandRunner(c CommandRunner) Option {
	return func(r *ShellRunner) { r.cmd = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *ShellRunner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a ShellRunner for root. Without WithLint or WithTest it runs
// nothing.
func New(name, root string, opts ...Option) *ShellRunner {
	r := &ShellRunner{
		name:    name,
		root:    root,
		timeout: DefaultTimeout,
		cmd:     &ExecRunner{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements Runner.
func (r *ShellRunner) Name() string {
	return r.name
}

// Root returns the directory commands run in.
func (r *ShellRunner) Root() string {
	return r.root
}

// Commands returns the commands Run would execute, in order.
func (r *ShellRunner) Commands(skipLint, skipTest bool) []string {
	var lint, test []string
	if !skipLint {
		lint = r.lint
	}
	if !skipTest {
		test = r.test
	}
	if r.order == TestFirst {
		return append(append([]string(nil), test...), lint...)
	}
	return append(append([]string(nil), lint...), test...)
}

// Run implements Runner. A failing command does not stop later ones. A
// command exceeding the timeout is reported with TimeoutStatus. Cancelling
// ctx stops the run and returns the results so far with ctx.Err().
func (r *ShellRunner) Run(ctx context.Context, skipLint, skipTest bool) ([]CommandResult, error) {
	commands := r.Commands(skipLint, skipTest)
	results := make([]CommandResult, 0, len(commands))

	for _, command := range commands {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := r.runOne(ctx, command)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *ShellRunner) runOne(ctx context.Context, command string) (CommandResult, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	stdout, stderr, exitCode, err := r.cmd.Run(cmdCtx, r.root, command)
	elapsed := time.Since(start)

	switch {
	case ctx.Err() != nil:
		return CommandResult{}, ctx.Err()
	case errors.Is(cmdCtx.Err(), context.DeadlineExceeded):
		r.logger.Warn("command timed out",
			slog.String("runner", r.name),
			slog.String("command", command),
			slog.Duration("timeout", r.timeout))
		return CommandResult{
			Command: command,
			Output:  stdout + stderr + fmt.Sprintf("\ntimeout after %s\n", r.timeout),
			Status:  TimeoutStatus,
		}, nil
	case err != nil:
		return CommandResult{}, fmt.Errorf("%w: %q: %w", ErrSpawn, command, err)
	}

	r.logger.Debug("command finished",
		slog.String("runner", r.name),
		slog.String("command", command),
		slog.Int("status", exitCode),
		slog.Duration("elapsed", elapsed))

	return CommandResult{
		Command: command,
		Output:  stdout + stderr,
		Status:  exitCode,
	}, nil
}
