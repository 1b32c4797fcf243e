// Package gaps provides the import command for gap-filler CSV files.
package gaps

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/eventmap/cmd/application"
	"github.com/agentstation/eventmap/internal/cmd/emoji"
	"github.com/agentstation/eventmap/internal/cmd/output"
	"github.com/agentstation/eventmap/pkg/errors"
	"github.com/agentstation/eventmap/pkg/logging"
)

// NewCommand creates the import command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "import <csv>...",
		GroupID: "data",
		Short:   "Add gap-filler rows from CSV files",
		Long: `Import reads CSV files of placeholder events for periods the collection
does not yet cover. Each file needs a header with country, year and title
columns (event and Event are accepted for the title); description and
category columns are optional.

Rows become gap records whose ids carry the gap prefix, so any real record
for the same event wins when the collection is reconciled afterwards. A row
matching an existing event only updates its category.`,
		Example: `  eventmap import gaps.csv                  # Import and save
  eventmap import a.csv b.csv --dry-run     # Preview`,
		Args: cobra.MinimumNArgs(1),
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

			stderr := cmd.ErrOrStderr()
			format := output.Format(app.OutputFormat())
			added := 0
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					if os.IsNotExist(err) {
						return errors.NewNotFoundError("csv file", path)
					}
					return errors.WrapIO("open", path, err)
				}
				res, err := em.ImportGaps(ctx, collection, f)
				_ = f.Close()
				if err != nil {
					var pe *errors.ParseError
					if errors.As(err, &pe) {
						pe.File = path
					}
					return err
				}
				added += res.Import.Added

				if !format.IsTable() {
					if err := output.NewFormatter(format).Format(cmd.OutOrStdout(), res); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintf(stderr, "%s %s: %d rows, %d added, %d updated, %d skipped\n",
					emoji.Success, path, res.Import.Rows, res.Import.Added, res.Import.Updated, len(res.Import.Skipped))
				for _, s := range res.Import.Skipped {
					fmt.Fprintf(stderr, "  %s line %d: %s\n", emoji.Warning, s.Line, s.Reason)
				}
			}

			if dryRun {
				fmt.Fprintf(stderr, "%s dry run, nothing written\n", emoji.Info)
				return nil
			}
			if err := em.Save(collection); err != nil {
				return err
			}
			fmt.Fprintf(stderr, "%s %d gap records added, %d events total\n", emoji.Success, added, len(collection.Events))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the result without writing the collection")

	return cmd
}
