package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/fixkit/autofix"
	"github.com/randalmurphal/fixkit/config"
	"github.com/randalmurphal/fixkit/edit"
	"github.com/randalmurphal/fixkit/internal/ui"
	"github.com/randalmurphal/fixkit/provider"
	"github.com/randalmurphal/fixkit/runner"
	"github.com/randalmurphal/fixkit/vcs"
)

// failureLines is how much failing output is shown when giving up.
const failureLines = 20

type editFlags struct {
	message        string
	whole          bool
	noVerify       bool
	skipLint       bool
	skipTest       bool
	maxFixAttempts int
	copyDiff       bool
}

func newEditCmd(g *globals) *cobra.Command {
	f := &editFlags{}

	cmd := &cobra.Command{
		Use:   "edit FILE REQUEST...",
		Short: "Ask the model for a change to FILE, commit it and verify it",
		Long: `Ask the model to change FILE as described by REQUEST and commit the result.

The model is asked for a unified diff first; a reply that cannot be parsed or
applied falls back to a whole-file rewrite. Unless --no-verify is given, the
project's lint and test commands run afterwards and the model is asked to fix
the first failure, up to --max-fix-attempts times. The command exits with
status 1 when commands still fail.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts := s.cfg.Fix
			if cmd.Flags().Changed("skip-lint") {
				opts.SkipLint = f.skipLint
			}
			if cmd.Flags().Changed("skip-test") {
				opts.SkipTest = f.skipTest
			}
			if cmd.Flags().Changed("max-fix-attempts") {
				opts.MaxFixAttempts = f.maxFixAttempts
			}
			return runEdit(cmd.Context(), cmd.OutOrStdout(), s, f, opts, args[0], strings.Join(args[1:], " "))
		},
	}

	cmd.Flags().StringVarP(&f.message, "message", "m", "", "commit message (default: generated)")
	cmd.Flags().BoolVar(&f.whole, "whole", false, "ask for a whole-file rewrite instead of a diff")
	cmd.Flags().BoolVar(&f.noVerify, "no-verify", false, "do not run lint and test commands")
	cmd.Flags().BoolVar(&f.skipLint, "skip-lint", false, "skip lint commands")
	cmd.Flags().BoolVar(&f.skipTest, "skip-test", false, "skip test commands")
	cmd.Flags().IntVar(&f.maxFixAttempts, "max-fix-attempts", 1, "fix attempts after the initial edit")
	cmd.Flags().BoolVar(&f.copyDiff, "copy", false, "copy the resulting diff to the clipboard")
	return cmd
}

func runEdit(ctx context.Context, out io.Writer, s *settings, f *editFlags, opts autofix.RunOptions, file, request string) error {
	p, err := s.provider()
	if err != nil {
		return err
	}
	repo, err := vcs.Open(s.root, vcs.WithLogger(s.logger))
	if err != nil {
		return err
	}

	ed := &reportingEditor{
		ed:    edit.New(p, repo, edit.WithLogger(s.logger)),
		out:   out,
		whole: f.whole,
	}
	file = s.abs(file)
	defer func() {
		if f.copyDiff {
			copyToClipboard(ed.diffs(), s.logger)
		}
	}()

	if f.noVerify {
		_, err := ed.ApplyDiffEdit(ctx, file, request, f.message)
		return s.noteRetryable(err)
	}

	passed, err := applyAndVerify(ctx, out, s, ed, s.cfg.Runner, opts, file, request, f.message)
	if err != nil {
		return s.noteRetryable(err)
	}
	if !passed {
		return ErrChecksFailed
	}
	return nil
}

// noteRetryable logs a hint when err looks like a transient provider failure.
func (s *settings) noteRetryable(err error) error {
	if err != nil && provider.IsRetryable(err) {
		s.logger.Warn("provider failure looks transient, rerunning may succeed", "error", err)
	}
	return err
}

// applyAndVerify runs the auto-fix loop, printing each round, and reports
// whether the final results passed.
func applyAndVerify(ctx context.Context, out io.Writer, s *settings, ed autofix.Editor, rc config.RunnerConfig,
	opts autofix.RunOptions, file, request, message string) (bool, error) {
	r, err := rc.BuildRunner(s.root, runner.WithLogger(s.logger))
	if err != nil {
		return false, err
	}

	results, err := autofix.ApplyWithRunner(ctx, ed, r, file, request, message, opts,
		autofix.WithLogger(s.logger),
		autofix.WithObserver(func(a autofix.Attempt) {
			fmt.Fprint(out, ui.Results(a.Results))
			fmt.Fprintln(out, ui.Attempt(a))
		}))
	if err != nil {
		return false, err
	}
	if failed, ok := runner.FirstFailure(results); ok {
		fmt.Fprint(out, ui.Failure(failed, failureLines))
		return false, nil
	}
	return true, nil
}

// reportingEditor prints every edit it makes. With whole set, the first
// edit is a whole-file rewrite and later fixes are diff edits.
type reportingEditor struct {
	ed    *edit.Editor
	out   io.Writer
	whole bool
	made  []*edit.Outcome
}

func (r *reportingEditor) ApplyDiffEdit(ctx context.Context, file, changeRequest, commitMessage string) (*edit.Outcome, error) {
	apply := r.ed.ApplyDiffEdit
	if r.whole && len(r.made) == 0 {
		apply = r.ed.ApplyWholeFileEdit
	}
	o, err := apply(ctx, file, changeRequest, commitMessage)
	if err != nil {
		return nil, err
	}
	r.made = append(r.made, o)

	fmt.Fprint(r.out, ui.Diff(o.Diff))
	fmt.Fprintln(r.out, ui.Outcome(o))
	return o, nil
}

func (r *reportingEditor) diffs() string {
	var b strings.Builder
	for _, o := range r.made {
		b.WriteString(o.Diff)
	}
	return b.String()
}

func copyToClipboard(text string, logger *slog.Logger) {
	if text == "" {
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		logger.Warn("copy to clipboard", slog.String("error", err.Error()))
		return
	}
	logger.Info("diff copied to clipboard", slog.Int("bytes", len(text)))
}
