// Package cli implements the fixkit command line.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	_ "github.com/randalmurphal/fixkit/providers"
)

var version = "dev"

// SetVersion sets the version reported by "fixkit version".
func SetVersion(v string) {
	version = v
}

// ErrChecksFailed is returned when lint or test commands still fail. The
// process exits with status 1 without printing it again.
var ErrChecksFailed = errors.New("checks failed")

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	dir        string
	verbose    bool
	provider   string
	model      string
}

// NewRootCommand builds the command tree. Each call returns fresh flag state.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "fixkit",
		Short: "fixkit: model-driven code edits that keep the build green",
		Long: `fixkit asks a language model for a change to one file, applies the reply
as a diff (falling back to a whole-file rewrite), commits it, and then runs
the project's lint and test commands, asking for fixes while they fail.

Settings come from .fixkit.yaml, .fixkit.yml or .fixkit.toml in the project
root, overridden by FIXKIT_* environment variables and then by the
--provider and --model flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default: .fixkit.{yaml,yml,toml} in --dir)")
	root.PersistentFlags().StringVarP(&g.dir, "dir", "C", ".", "project directory")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&g.provider, "provider", "", "provider name, overriding config and FIXKIT_PROVIDER")
	root.PersistentFlags().StringVar(&g.model, "model", "", "model name, overriding config and FIXKIT_MODEL")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newEditCmd(g))
	root.AddCommand(newRunCmd(g))
	root.AddCommand(newDiffCmd())
	root.AddCommand(newWatchCmd(g))
	root.AddCommand(newConfigCmd(g))
	return root
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
