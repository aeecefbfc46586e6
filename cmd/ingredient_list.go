package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/alloy/internal/presentation"
)

func newIngredientListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ingredient:list",
		Short: "List ingredients available to declarations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			return presentation.NewFormatter(cmd.OutOrStdout()).
				FormatIngredients(presentation.FromIngredientEntries(svc.Ingredients()))
		},
	}
}
