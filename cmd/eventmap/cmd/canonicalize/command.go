// Package canonicalize provides the canonicalize command.
package canonicalize

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/eventmap/cmd/application"
	"github.com/agentstation/eventmap/internal/cmd/output"
	"github.com/agentstation/eventmap/internal/cmd/table"
	"github.com/agentstation/eventmap/pkg/errors"
)

// NewCommand creates the canonicalize command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:     "canonicalize [name...]",
		GroupID: "core",
		Aliases: []string{"resolve"},
		Short:   "Resolve raw country names to their canonical form",
		Long: `Canonicalize looks each name up in the country definitions, ignoring case,
diacritics, apostrophe variants and surrounding whitespace. A name that
matches no alias but equals a canonical name exactly still resolves.

Names are read from the arguments, or one per line from stdin when no
argument is given.`,
		Example: `  eventmap canonicalize Turkey "  usa "      # Resolve two names
  cut -d, -f1 data.csv | eventmap canonicalize # Resolve names from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				var err error
				if names, err = readLines(cmd); err != nil {
					return err
				}
			}

			em, err := app.Eventmap()
			if err != nil {
				return err
			}

			results := make([]table.Resolution, 0, len(names))
			var unresolved []string
			for _, name := range names {
				r := table.Resolution{Input: name}
				if canon, ok := em.Canonicalize(name); ok {
					r.Name, r.ISOCode, r.Resolved = canon.Name, canon.ISOCode, true
				} else {
					unresolved = append(unresolved, name)
				}
				results = append(results, r)
			}

			if err := output.Print(cmd.OutOrStdout(), output.Format(app.OutputFormat()), results, func(bool) table.Data {
				return table.ResolutionsToTableData(results)
			}); err != nil {
				return err
			}

			if strict && len(unresolved) > 0 {
				return errors.NewNotFoundError("country", strings.Join(unresolved, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when a name does not resolve")

	return cmd
}

func readLines(cmd *cobra.Command) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapIO("read", "stdin", err)
	}
	return lines, nil
}
