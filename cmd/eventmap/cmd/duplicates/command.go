// Package duplicates provides the duplicates command.
package duplicates

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/eventmap/cmd/application"
	"github.com/agentstation/eventmap/internal/cmd/emoji"
	"github.com/agentstation/eventmap/internal/cmd/output"
	"github.com/agentstation/eventmap/internal/cmd/table"
	"github.com/agentstation/eventmap/pkg/logging"
)

// NewCommand creates the duplicates command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:     "duplicates",
		GroupID: "core",
		Aliases: []string{"dupes"},
		Short:   "Find events that probably describe the same thing",
		Long: `Duplicates looks for records in the same country and year that escaped
exact de-duplication because their titles differ. Two records match when
they share a reference URL, have the same title after normalization, or
are in the same category with nearly the same title words.

Matching is transitive. By default the groups are only reported; with
--apply each group is merged into its most complete record and the
collection is saved.`,
		Example: `  eventmap duplicates                       # Report probable duplicates
  eventmap duplicates --apply               # Merge them`,
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

			groups := em.FindProbableDuplicates(collection)
			format := output.Format(app.OutputFormat())
			stderr := cmd.ErrOrStderr()

			if len(groups) == 0 && format.IsTable() {
				fmt.Fprintf(stderr, "%s no probable duplicates\n", emoji.Success)
				return nil
			}
			if err := output.Print(cmd.OutOrStdout(), format, groups, func(bool) table.Data {
				return table.GroupsToTableData(groups)
			}); err != nil {
				return err
			}
			if !apply || len(groups) == 0 {
				return nil
			}

			before := len(collection.Events)
			em.MergeProbable(ctx, collection)
			if err := em.Save(collection); err != nil {
				return err
			}
			fmt.Fprintf(stderr, "%s merged %d groups, %d → %d events\n",
				emoji.Success, len(groups), before, len(collection.Events))
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "merge each group and save the collection")

	return cmd
}
