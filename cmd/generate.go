package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/alloy/internal/log"
	"github.com/zjrosen/alloy/internal/presentation"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		count  int
		noEval bool
	)

	cmd := &cobra.Command{
		Use:   "generate <template> [key=value...]",
		Short: "Generate units from a template",
		Long: `Generate one or more units from a template and print them as JSON.

Arguments are either all key=value pairs, passed as named arguments, or all
bare values, passed positionally. Values are read as YAML scalars, so 3 is a
number and true is a bool; quote a value to keep it a string.

Every operation on the unit is called with no arguments and its result
printed, unless --no-eval is given.`,
		Example: `  alloy generate greeter who=World
  alloy generate formal-greeter who=Ada -n 3
  alloy generate record --no-eval`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			genArgs, err := parseGenerateArgs(args[1:])
			if err != nil {
				return err
			}

			svc, err := opts.service()
			if err != nil {
				return err
			}
			gen, err := svc.Generator(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			units := make([]presentation.UnitDTO, 0, count)
			for range count {
				id, err := gen.Generate(ctx, genArgs...)
				if err != nil {
					return fmt.Errorf("generating %s: %w", gen.Name(), err)
				}
				u, ok := svc.Unit(id)
				if !ok {
					return fmt.Errorf("unit %s was not stored", id)
				}
				units = append(units, presentation.FromUnit(ctx, u, !noEval))
			}
			log.Info(log.CatCLI, "Generated units", "template", gen.Name(), "count", len(units))

			formatter := presentation.NewFormatter(cmd.OutOrStdout())
			if len(units) == 1 {
				return formatter.FormatUnit(units[0])
			}
			return formatter.FormatUnits(units)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of units to generate")
	cmd.Flags().BoolVar(&noEval, "no-eval", false, "list operations without calling them")
	return cmd
}

// parseGenerateArgs turns command-line words into generator arguments.
func parseGenerateArgs(words []string) ([]any, error) {
	var named, positional int
	out := make([]any, 0, len(words)*2)
	for _, w := range words {
		key, value, ok := strings.Cut(w, "=")
		if ok && key != "" {
			named++
			out = append(out, key, parseScalar(value))
			continue
		}
		positional++
		out = append(out, parseScalar(w))
	}
	if named > 0 && positional > 0 {
		return nil, fmt.Errorf("cannot mix key=value and positional arguments")
	}
	return out, nil
}

func parseScalar(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	switch v.(type) {
	case string, int, bool, float64:
		return v
	default:
		return s
	}
}
