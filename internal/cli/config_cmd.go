package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/fixkit/config"
)

func newConfigCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect fixkit configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Schema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration with defaults and environment merged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if s.path != "" {
				s.logger.Debug("config loaded", slog.String("path", s.path))
			}
			return config.Encode(cmd.OutOrStdout(), s.cfg, format)
		},
	}
	show.Flags().StringVarP(&format, "format", "o", "yaml", "output format: yaml, toml or json")
	cmd.AddCommand(show)

	return cmd
}
