// Package countries provides the countries command.
package countries

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/eventmap/cmd/application"
	"github.com/agentstation/eventmap/internal/cmd/emoji"
	"github.com/agentstation/eventmap/internal/cmd/output"
	"github.com/agentstation/eventmap/internal/cmd/table"
	"github.com/agentstation/eventmap/internal/matcher"
	"github.com/agentstation/eventmap/pkg/countries"
	"github.com/agentstation/eventmap/pkg/errors"
)

// NewCommand creates the countries command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var collisions bool

	cmd := &cobra.Command{
		Use:     "countries [pattern]",
		GroupID: "data",
		Short:   "List country definitions",
		Long: `Countries lists the country definitions in use: the embedded set, or the
file given with --countries.

An optional glob or regex pattern filters on canonical names and aliases.
With --collisions the command lists aliases that more than one definition
claims instead; the first definition keeps such an alias.`,
		Example: `  eventmap countries                       # All definitions
  eventmap countries "kore*"               # Definitions matching a pattern
  eventmap countries --collisions          # Ambiguous aliases`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			em, err := app.Eventmap()
			if err != nil {
				return err
			}
			format := output.Format(app.OutputFormat())

			if collisions {
				found := em.Index().Collisions()
				if len(found) == 0 && format.IsTable() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s no alias collisions\n", emoji.Success)
					return nil
				}
				return output.Print(cmd.OutOrStdout(), format, found, func(bool) table.Data {
					return table.CollisionsToTableData(found)
				})
			}

			defs := em.Definitions()
			if len(args) == 1 {
				if defs, err = filterDefinitions(defs, args[0]); err != nil {
					return err
				}
			}
			return output.Print(cmd.OutOrStdout(), format, defs, func(bool) table.Data {
				return table.DefinitionsToTableData(defs)
			})
		},
	}

	cmd.Flags().BoolVar(&collisions, "collisions", false, "list aliases claimed by more than one country")

	return cmd
}

// filterDefinitions keeps the definitions whose canonical name or one of
// whose aliases matches pattern.
func filterDefinitions(defs []countries.Definition, pattern string) ([]countries.Definition, error) {
	m, err := matcher.New(matcher.Auto, pattern, &matcher.Options{Fold: true, Anchored: true})
	if err != nil {
		return nil, errors.WrapValidation("pattern", err)
	}
	out := []countries.Definition{}
	for _, d := range defs {
		if m.Match(d.CanonicalName) || m.MatchAny(d.Aliases...) {
			out = append(out, d)
		}
	}
	return out, nil
}
