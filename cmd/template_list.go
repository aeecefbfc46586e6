package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/alloy/internal/catalog"
	"github.com/zjrosen/alloy/internal/presentation"
)

func newTemplateListCmd(opts *rootOptions) *cobra.Command {
	var (
		labels []string
		source string
	)

	cmd := &cobra.Command{
		Use:   "template:list",
		Short: "List available templates",
		Long: `List templates from the catalog as JSON.

Use --label to filter by labels (multiple labels use AND logic).
Use --source to show only builtin, user, or code templates.`,
		Example: `  alloy template:list
  alloy template:list --label kind:greeting
  alloy template:list --source user`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch catalog.Source(source) {
			case "", catalog.SourceBuiltin, catalog.SourceUser, catalog.SourceCode:
			default:
				return fmt.Errorf("unknown source %q (want builtin, user, or code)", source)
			}

			svc, err := opts.service()
			if err != nil {
				return err
			}

			var entries []catalog.Entry
			if len(labels) > 0 {
				entries = svc.Catalog().GetByLabels(labels...)
			} else {
				entries = svc.Catalog().List()
			}
			if source != "" {
				filtered := entries[:0]
				for _, e := range entries {
					if e.Source == catalog.Source(source) {
						filtered = append(filtered, e)
					}
				}
				entries = filtered
			}

			return presentation.NewFormatter(cmd.OutOrStdout()).
				FormatTemplates(presentation.FromCatalogEntries(entries))
		},
	}

	cmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "filter by label (repeatable, AND logic)")
	cmd.Flags().StringVar(&source, "source", "", "filter by source: builtin, user, or code")
	return cmd
}
