package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/fixkit/diffs"
	"github.com/randalmurphal/fixkit/internal/ui"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff ORIGINAL UPDATED",
		Short: "Show the fenced unified diff between two files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			orig, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read original: %w", err)
			}
			updated, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read updated: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.Diff(diffs.UnifiedDiff(string(orig), string(updated), args[1])))
			return nil
		},
	}
}
