package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/fixkit/internal/ui"
	"github.com/randalmurphal/fixkit/runner"
)

func newRunCmd(g *globals) *cobra.Command {
	var skipLint, skipTest bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the project's lint and test commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := s.cfg.Runner.Validate(); err != nil {
				return fmt.Errorf("config: runner: %w", err)
			}
			r, err := s.cfg.Runner.BuildRunner(s.root, runner.WithLogger(s.logger))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Header(r.Name()))
			results, err := r.Run(cmd.Context(), skipLint, skipTest)
			fmt.Fprint(out, ui.Results(results))
			if err != nil {
				return err
			}
			for _, res := range results {
				if res.Failed() {
					fmt.Fprint(out, ui.Failure(res, failureLines))
				}
			}
			if _, failed := runner.FirstFailure(results); failed {
				return ErrChecksFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipLint, "skip-lint", false, "skip lint commands")
	cmd.Flags().BoolVar(&skipTest, "skip-test", false, "skip test commands")
	return cmd
}
