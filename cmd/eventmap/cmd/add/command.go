// Package add provides the add command.
package add

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/eventmap/cmd/application"
	"github.com/agentstation/eventmap/internal/cmd/emoji"
	"github.com/agentstation/eventmap/internal/cmd/output"
	"github.com/agentstation/eventmap/pkg/errors"
	"github.com/agentstation/eventmap/pkg/events"
	"github.com/agentstation/eventmap/pkg/logging"
)

// Flags holds the values of the add command's flags.
type Flags struct {
	ID          string
	Country     string
	Year        int
	Title       string
	Description string
	Category    string
	URL         string
	Lat         float64
	Lon         float64
	Casualties  int64
	KeyFigures  []string
}

// Record builds the record described by the flags. Only flags set on the
// command line are copied, so unset optional fields stay empty.
func (f *Flags) Record(cmd *cobra.Command) (*events.Record, error) {
	if strings.TrimSpace(f.Country) == "" {
		return nil, &errors.ValidationError{Field: "country", Message: "is required"}
	}
	if strings.TrimSpace(f.Title) == "" {
		return nil, &errors.ValidationError{Field: "title", Message: "is required"}
	}
	if !cmd.Flags().Changed("year") {
		return nil, &errors.ValidationError{Field: "year", Message: "is required"}
	}

	rec := &events.Record{
		ID:           f.ID,
		CountryName:  f.Country,
		Year:         events.NewYear(f.Year),
		Title:        f.Title,
		Description:  f.Description,
		Category:     f.Category,
		WikipediaURL: f.URL,
		Lat:          f.Lat,
		Lon:          f.Lon,
		KeyFigures:   []string{},
	}
	if rec.ID == "" {
		rec.ID = events.NewID()
	}
	if cmd.Flags().Changed("casualties") {
		n := f.Casualties
		rec.Casualties = &n
	}
	for _, k := range f.KeyFigures {
		if k = strings.TrimSpace(k); k != "" {
			rec.KeyFigures = append(rec.KeyFigures, k)
		}
	}
	return rec, nil
}

// NewCommand creates the add command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "add",
		GroupID: "data",
		Short:   "Append an event and reconcile the collection",
		Long: `Add appends one event and runs a reconcile pass, so the country name is
canonicalized, the decade computed and the event merged with an existing
record for the same country, year and title.

The event gets a fresh id unless --id is given.`,
		Example: `  eventmap add --country Turkey --year 1923 --title "Cumhuriyetin ilanı"
  eventmap add --country Mısır --year 1956 --title "Süveyş Krizi" \
      --category war --lat 30.6 --lon 32.3 --key-figure Nasır`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())

			rec, err := flags.Record(cmd)
			if err != nil {
				return err
			}

			em, err := app.Eventmap()
			if err != nil {
				return err
			}
			collection, err := em.Load()
			if err != nil {
				if !errors.IsNotFound(err) {
					return err
				}
				collection = events.NewCollection()
			}
			if _, taken := collection.Find(rec.ID); taken {
				return &errors.ValidationError{Field: "id", Value: rec.ID, Message: "already exists"}
			}

			collection.Events = append(collection.Events, rec)
			result := em.Reconcile(ctx, collection)

			if err := em.Save(collection); err != nil {
				return err
			}

			stored, ok := collection.Find(rec.ID)
			if !ok {
				for _, g := range result.Merged {
					for _, id := range g.MergedIDs {
						if id == rec.ID {
							stored, _ = collection.Find(g.SurvivorID)
							fmt.Fprintf(cmd.ErrOrStderr(), "%s merged into existing event %s\n", emoji.Merge, g.SurvivorID)
						}
					}
				}
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s added %s\n", emoji.Success, rec.ID)
			}
			if stored == nil {
				return nil
			}

			format := output.Format(app.OutputFormat())
			if format.IsTable() {
				format = output.FormatJSON
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), stored)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.ID, "id", "", "event id (default is a fresh id)")
	f.StringVar(&flags.Country, "country", "", "country name, any known spelling (required)")
	f.IntVar(&flags.Year, "year", 0, "year, negative for BCE (required)")
	f.StringVar(&flags.Title, "title", "", "event title (required)")
	f.StringVar(&flags.Description, "description", "", "event description")
	f.StringVar(&flags.Category, "category", "", "category key")
	f.StringVar(&flags.URL, "url", "", "reference URL")
	f.Float64Var(&flags.Lat, "lat", 0, "latitude")
	f.Float64Var(&flags.Lon, "lon", 0, "longitude")
	f.Int64Var(&flags.Casualties, "casualties", 0, "number of casualties")
	f.StringSliceVar(&flags.KeyFigures, "key-figure", nil, "key figure, repeatable")

	return cmd
}
