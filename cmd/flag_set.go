package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zjrosen/alloy/internal/config"
	"github.com/zjrosen/alloy/internal/flags"
)

func newFlagSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "flag:set <name> <true|false>",
		Short: "Turn a feature flag on or off in the config file",
		Long: `Persist a feature flag in the config file in use (or the default config
path when none exists). Other settings and comments are preserved.

Known flags: ` + fmt.Sprint(slices.Sorted(maps.Keys(flags.Defaults()))),
		Example: `  alloy flag:set eager-proxy-validation true`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, ok := flags.Defaults()[name]; !ok {
				return fmt.Errorf("unknown flag %q", name)
			}
			enabled, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("flag value must be true or false: %w", err)
			}

			path := opts.cfgPath
			if path == "" {
				path = defaultConfigPath()
			}
			if err := config.SaveFlag(path, name, enabled); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s=%t (%s)\n", name, enabled, path)
			return err
		},
	}
}
