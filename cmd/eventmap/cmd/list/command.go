// Package list provides the list command.
package list

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/eventmap"
	"github.com/agentstation/eventmap/cmd/application"
	"github.com/agentstation/eventmap/internal/cmd/output"
	"github.com/agentstation/eventmap/internal/cmd/table"
	"github.com/agentstation/eventmap/pkg/errors"
	"github.com/agentstation/eventmap/pkg/events"
)

// NewCommand creates the list command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var filter eventmap.Filter

	cmd := &cobra.Command{
		Use:     "list [event-id]",
		GroupID: "data",
		Aliases: []string{"ls"},
		Short:   "List events from the collection",
		Long: `List shows events from the collection, newest first.

Filters combine: --country takes a glob or regex pattern compared without
regard to case or diacritics, --search looks in titles and descriptions.
With an event id the command shows that single record.`,
		Example: `  eventmap list                             # All events
  eventmap list --country "turk*"           # Events in matching countries
  eventmap list --decade 1910s --category war
  eventmap list --search canakkale -o wide
  eventmap list ev_123                      # One record`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeValues(app, func(rec *events.Record) string { return rec.ID }),
		RunE: func(cmd *cobra.Command, args []string) error {
			em, err := app.Eventmap()
			if err != nil {
				return err
			}
			collection, err := em.Load()
			if err != nil {
				return err
			}
			format := output.Format(app.OutputFormat())

			if len(args) == 1 {
				rec, ok := collection.Find(args[0])
				if !ok {
					return errors.NewNotFoundError("event", args[0])
				}
				if format.IsTable() {
					format = output.FormatJSON
				}
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), rec)
			}

			records, err := filter.Apply(collection)
			if err != nil {
				return err
			}
			if err := output.Print(cmd.OutOrStdout(), format, records, func(wide bool) table.Data {
				return table.EventsToTableData(records, wide)
			}); err != nil {
				return err
			}

			if format.IsTable() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Found %d events\n", len(records))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&filter.Country, "country", "", "country name pattern (glob or regex)")
	flags.StringVar(&filter.Decade, "decade", "", "decade bucket, e.g. 1920s")
	flags.StringVar(&filter.Category, "category", "", "category key")
	flags.StringVarP(&filter.Search, "search", "s", "", "text to look for in titles and descriptions")
	flags.IntVarP(&filter.Limit, "limit", "l", 0, "maximum number of events to show")

	_ = cmd.RegisterFlagCompletionFunc("decade", completeValues(app, func(rec *events.Record) string { return rec.Decade }))
	_ = cmd.RegisterFlagCompletionFunc("category", completeValues(app, func(rec *events.Record) string { return rec.Category }))

	return cmd
}

// completeValues completes with the distinct non-empty values field takes
// across the collection.
func completeValues(app application.Application, field func(*events.Record) string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		em, err := app.Eventmap()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		collection, err := em.Load()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return matchingValues(collection, field, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

func matchingValues(collection *events.Collection, field func(*events.Record) string, prefix string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range collection.Events {
		if rec == nil {
			continue
		}
		v := field(rec)
		if v == "" || !strings.HasPrefix(v, prefix) {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
