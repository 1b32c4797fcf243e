// Package check provides the check command.
package check

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/eventmap/cmd/application"
	"github.com/agentstation/eventmap/internal/cmd/emoji"
	"github.com/agentstation/eventmap/internal/cmd/output"
	"github.com/agentstation/eventmap/internal/cmd/table"
	"github.com/agentstation/eventmap/pkg/errors"
)

// NewCommand creates the check command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:     "check",
		GroupID: "core",
		Short:   "Report consistency issues without changing anything",
		Long: `Check compares the collection with what a reconcile pass would produce.

Errors: non-canonical country names, stale decades, duplicate events.
Warnings: unknown countries, country codes that differ from the ISO code,
categories without a definition.

The command exits non-zero when there are errors, or any issue with --strict.`,
		Example: `  eventmap check                           # Report issues
  eventmap check --strict                  # Fail on warnings too`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			em, err := app.Eventmap()
			if err != nil {
				return err
			}
			collection, err := em.Load()
			if err != nil {
				return err
			}

			report := em.Check(collection)

			format := output.Format(app.OutputFormat())
			if !format.IsTable() || len(report.Issues) > 0 {
				if err := output.Print(cmd.OutOrStdout(), format, report, func(bool) table.Data {
					return table.IssuesToTableData(report.Issues)
				}); err != nil {
					return err
				}
			}

			nErr, nWarn := len(report.Errors()), len(report.Warnings())
			stderr := cmd.ErrOrStderr()
			if len(report.Issues) == 0 {
				fmt.Fprintf(stderr, "%s %d events, %d countries, no issues\n", emoji.Success, report.Events, report.Countries)
				return nil
			}
			sym := emoji.Error
			if nErr == 0 {
				sym = emoji.Warning
			}
			fmt.Fprintf(stderr, "%s %d events, %d countries: %d errors, %d warnings\n",
				sym, report.Events, report.Countries, nErr, nWarn)

			if err := report.Err(); err != nil {
				return err
			}
			if strict {
				msgs := make([]string, 0, nWarn)
				for _, is := range report.Warnings() {
					msgs = append(msgs, is.Message)
				}
				return errors.NewConsistencyError(msgs)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero on warnings too")

	return cmd
}
