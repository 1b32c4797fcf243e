// Package reconcile provides the reconcile command.
package reconcile

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/eventmap/cmd/application"
	"github.com/agentstation/eventmap/internal/cmd/emoji"
	"github.com/agentstation/eventmap/internal/cmd/output"
	"github.com/agentstation/eventmap/internal/cmd/table"
	"github.com/agentstation/eventmap/pkg/logging"
)

// NewCommand creates the reconcile command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "reconcile",
		GroupID: "core",
		Short:   "Canonicalize countries and merge duplicate events",
		Long: `Reconcile runs one pass over the events collection:

• Country names are resolved to their canonical spelling and ISO code
• Decades are recomputed from the year
• Records sharing country, year and title are merged into the most
  complete one, filling its empty fields from the others

The collection is written back only when something changed. The previous
file is kept as <file>.bak.<timestamp>.`,
		Example: `  eventmap reconcile                       # Reconcile and save
  eventmap reconcile --dry-run             # Show what would change
  eventmap reconcile -o json               # Machine-readable result`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())

			em, err := app.Eventmap()
			if err != nil {
				return err
			}
			collection, err := em.Load()
			if err != nil {
				return err
			}

			result := em.Reconcile(ctx, collection)

			format := output.Format(app.OutputFormat())
			if err := output.Print(cmd.OutOrStdout(), format, result, func(bool) table.Data {
				return table.StatisticsToTableData(result.Statistics)
			}); err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			if format.IsTable() {
				for _, g := range result.Merged {
					for _, id := range g.MergedIDs {
						fmt.Fprintf(stderr, "%s %s into %s\n", emoji.Merge, id, g.SurvivorID)
					}
				}
				for _, u := range result.Unresolved {
					fmt.Fprintf(stderr, "%s unresolved country %q (%d events)\n", emoji.Warning, u.Name, u.Count)
				}
			}

			switch {
			case dryRun:
				fmt.Fprintf(stderr, "%s dry run, nothing written\n", emoji.Info)
				return nil
			case !result.Changed():
				fmt.Fprintln(stderr, result.Summary())
				return nil
			}

			if err := em.Save(collection); err != nil {
				return err
			}
			fmt.Fprintf(stderr, "%s %s\n", emoji.Success, result.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the result without writing the collection")

	return cmd
}
