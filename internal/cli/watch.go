package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/fixkit/autofix"
	"github.com/randalmurphal/fixkit/config"
	"github.com/randalmurphal/fixkit/edit"
	"github.com/randalmurphal/fixkit/internal/ui"
	"github.com/randalmurphal/fixkit/vcs"
	"github.com/randalmurphal/fixkit/watch"
)

func newWatchCmd(g *globals) *cobra.Command {
	var noVerify bool

	cmd := &cobra.Command{
		Use:   "watch [PATHS...]",
		Short: "Act on AI! comments as files are saved",
		Long: `Watch the project (or PATHS) for saved files containing comments that
start or end with "AI!". Each such file is sent to the model with its marked
comments, the change is committed, and the lint and test commands are run
with the usual fix attempts.

Changes to the config file are picked up without restarting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), cmd.OutOrStdout(), s, args, noVerify)
		},
	}

	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "do not run lint and test commands")
	return cmd
}

// liveSettings holds the parts of the config that may change while watching.
type liveSettings struct {
	mu     sync.Mutex
	runner config.RunnerConfig
	fix    autofix.RunOptions
}

func (l *liveSettings) get() (config.RunnerConfig, autofix.RunOptions) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.runner, l.fix
}

func (l *liveSettings) set(cfg config.Config) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runner, l.fix = cfg.Runner, cfg.Fix
}

func runWatch(ctx context.Context, out io.Writer, s *settings, paths []string, noVerify bool) error {
	p, err := s.provider()
	if err != nil {
		return err
	}
	repo, err := vcs.Open(s.root, vcs.WithLogger(s.logger))
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		paths = []string{s.root}
	}
	abs := make([]string, len(paths))
	for i, path := range paths {
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.root, path)
		}
		abs[i] = path
	}

	w, err := watch.New(abs, watch.WithLogger(s.logger))
	if err != nil {
		return err
	}
	defer w.Close()

	live := &liveSettings{}
	live.set(s.cfg)
	if s.path != "" {
		go func() {
			err := config.Watch(ctx, s.path, func(cfg config.Config, err error) {
				if err == nil {
					cfg.LoadFromEnv()
					err = cfg.Validate()
				}
				if err != nil {
					s.logger.Warn("config reload failed", slog.String("error", err.Error()))
					return
				}
				live.set(cfg)
				s.logger.Info("config reloaded", slog.String("path", s.path))
			})
			if err != nil {
				s.logger.Warn("config watch", slog.String("error", err.Error()))
			}
		}()
	}

	ed := &reportingEditor{ed: edit.New(p, repo, edit.WithLogger(s.logger)), out: out}
	handler := func(ctx context.Context, file, request string) error {
		fmt.Fprintln(out, ui.Header(file))
		file = s.abs(file)
		if noVerify {
			_, err := ed.ApplyDiffEdit(ctx, file, request, "")
			return err
		}

		rc, opts := live.get()
		_, err := applyAndVerify(ctx, out, s, ed, rc, opts, file, request, "")
		return err
	}

	s.logger.Info("watching for AI! comments", slog.Any("paths", abs))
	watch.Serve(ctx, w.Changes(ctx), s.root, handler, s.logger)
	return nil
}
