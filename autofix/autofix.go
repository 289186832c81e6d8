// Package autofix applies an edit and keeps it green.
//
// ApplyWithRunner performs a diff edit, runs the project's lint and test
// commands, and while something fails asks the model to fix the first
// failure, up to a bounded number of attempts. Running out of attempts is
// not an error: the caller gets the last results and decides what to do.
package autofix

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/randalmurphal/fixkit/edit"
	"github.com/randalmurphal/fixkit/prompts"
	"github.com/randalmurphal/fixkit/runner"
	"github.com/randalmurphal/fixkit/tokens"
)

// FixCommitMessage is the commit message used for every fix attempt.
const FixCommitMessage = "auto-fix"

// summaryLines is how much of a failed command's output the fix request quotes.
const summaryLines = 20

// DefaultSummaryTokens caps the quoted output when its lines are very long.
const DefaultSummaryTokens = 2000

// Editor applies a change request as a diff edit. *edit.Editor satisfies it.
type Editor interface {
	ApplyDiffEdit(ctx context.Context, file, changeRequest, commitMessage string) (*edit.Outcome, error)
}

// RunOptions controls the verification loop.
type RunOptions struct {
	SkipLint bool `json:"skip_lint" yaml:"skip_lint" toml:"skip_lint"`
	SkipTest bool `json:"skip_test" yaml:"skip_test" toml:"skip_test"`

	// MaxFixAttempts is how many fix edits may follow the initial edit.
	MaxFixAttempts int `json:"max_fix_attempts" yaml:"max_fix_attempts" toml:"max_fix_attempts"`
}

// DefaultRunOptions runs lint and tests and allows one fix attempt.
func DefaultRunOptions() RunOptions {
	return RunOptions{MaxFixAttempts: 1}
}

// Validate rejects negative attempt counts.
func (o RunOptions) Validate() error {
	if o.MaxFixAttempts < 0 {
		return fmt.Errorf("max_fix_attempts must be >= 0, got %d", o.MaxFixAttempts)
	}
	return nil
}

// Attempt reports one verification round.
type Attempt struct {
	// Number is 0 for the run after the initial edit, then 1, 2, ... for
	// the run after each fix.
	Number int

	// Results are the command results of this round.
	Results []runner.CommandResult

	// Fixing is set when a fix edit follows this round.
	Fixing bool

	// Failed is the result the fix request is built from, when Fixing.
	Failed runner.CommandResult
}

type config struct {
	logger        *slog.Logger
	observer      func(Attempt)
	summaryTokens int
}

// Option configures ApplyWithRunner.
type Option func(*config)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver is called after every verification round.
func WithObserver(fn func(Attempt)) Option {
	return func(c *config) { c.observer = fn }
}

// WithSummaryTokens caps the failure summary quoted in fix requests.
// Longer summaries lose their middle. Non-positive values are ignored.
func WithSummaryTokens(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.summaryTokens = n
		}
	}
}

// ApplyWithRunner applies changeRequest to file with commitMessage, then
// runs r. While a command fails and attempts remain, it requests a fix for
// the first failure and commits it as FixCommitMessage. It returns the
// results of the last run, failing or not. Edit and runner errors abort the
// loop and are returned as is.
func ApplyWithRunner(ctx context.Context, ed Editor, r runner.Runner, file, changeRequest, commitMessage string, opts RunOptions, options ...Option) ([]runner.CommandResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cfg := config{logger: slog.Default(), summaryTokens: DefaultSummaryTokens}
	for _, o := range options {
		o(&cfg)
	}

	if _, err := ed.ApplyDiffEdit(ctx, file, changeRequest, commitMessage); err != nil {
		return nil, fmt.Errorf("apply edit: %w", err)
	}

	for attempt := 0; ; attempt++ {
		results, err := r.Run(ctx, opts.SkipLint, opts.SkipTest)
		if err != nil {
			return results, fmt.Errorf("run %s: %w", r.Name(), err)
		}

		failed, ok := runner.FirstFailure(results)
		fixing := ok && attempt < opts.MaxFixAttempts
		if cfg.observer != nil {
			cfg.observer(Attempt{Number: attempt, Results: results, Fixing: fixing, Failed: failed})
		}

		if !ok {
			cfg.logger.Info("all commands passed",
				slog.String("runner", r.Name()),
				slog.Int("fix_attempts", attempt))
			return results, nil
		}
		if !fixing {
			cfg.logger.Warn("giving up with failing commands",
				slog.String("runner", r.Name()),
				slog.String("command", failed.Command),
				slog.Int("status", failed.Status),
				slog.Int("fix_attempts", attempt))
			return results, nil
		}

		cfg.logger.Info("requesting fix",
			slog.String("command", failed.Command),
			slog.Int("status", failed.Status),
			slog.Int("attempt", attempt+1))

		fix := prompts.FixRequest(failed.Command, cfg.summarize(failed), file)
		if _, err := ed.ApplyDiffEdit(ctx, file, fix, FixCommitMessage); err != nil {
			return results, fmt.Errorf("apply fix %d: %w", attempt+1, err)
		}
	}
}

// summarize quotes the first lines of a failed command's output within the
// token cap.
func (c *config) summarize(failed runner.CommandResult) string {
	summary := runner.SummarizeOutput(failed.Output, summaryLines, failed.Status)
	if short, cut := tokens.NewTruncator(tokens.FromMiddle).Truncate(summary, c.summaryTokens); cut {
		c.logger.Debug("failure summary truncated",
			slog.String("command", failed.Command),
			slog.Int("tokens", tokens.Estimate(summary)))
		return short
	}
	return summary
}

// Passed reports whether every result succeeded.
func Passed(results []runner.CommandResult) bool {
	_, failed := runner.FirstFailure(results)
	return !failed
}
