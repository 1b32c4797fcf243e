// Package gapfill imports gap-filler rows from CSV files into an event
// collection. Gap records are placeholders for periods the collection does
// not yet cover; their ids carry the gap prefix so reconciliation always
// prefers real data over them.
package gapfill

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/agentstation/eventmap/pkg/countries"
	"github.com/agentstation/eventmap/pkg/errors"
	"github.com/agentstation/eventmap/pkg/events"
	"github.com/agentstation/eventmap/pkg/logging"
)

// Column names accepted for each field, in order of preference. Files from
// different sources name their columns differently.
var (
	countryColumns     = []string{"country", "Country", "country_name"}
	yearColumns        = []string{"year", "Year", "year_start"}
	titleColumns       = []string{"event", "Event", "title", "Title", "event_title"}
	descriptionColumns = []string{"summary", "Summary", "description", "Description", "description_tr"}
	categoryColumns    = []string{"category", "Category"}
)

// categoryLabels maps the Turkish labels used in source spreadsheets to
// category keys. Unlisted values are kept as given.
var categoryLabels = map[string]string{
	"Savaş/Çatışma":            events.CategoryWar,
	"Savas/Catisma":            events.CategoryWar,
	"Soykırım":                 events.CategoryGenocide,
	"Soykirim":                 events.CategoryGenocide,
	"Devrim/Rejim Değişikliği": events.CategoryRevolution,
	"Devrim/Rejim Degisikligi": events.CategoryRevolution,
	"Terör Saldırısı":          events.CategoryTerror,
	"Teror Saldirisi":          events.CategoryTerror,
	"Önemli Lider":             events.CategoryLeader,
	"Onemli Lider":             events.CategoryLeader,
	"Kültür/Bilim":             events.CategoryCulture,
	"Kultur/Bilim":             events.CategoryCulture,
	"Kültür & Toplum":          events.CategoryCulture,
	"Doğal Afet":               events.CategoryCulture,
	"Ekonomi":                  events.CategoryRevolution,
}

// Row is one CSV data row.
type Row struct {
	Line        int
	Country     string
	Year        string
	Title       string
	Description string
	Category    string
}

// Skip records a row that was not imported.
type Skip struct {
	Line   int    `json:"line" yaml:"line"`
	Reason string `json:"reason" yaml:"reason"`
}

// Summary reports what Apply did.
type Summary struct {
	Rows    int      `json:"rows" yaml:"rows"`
	Added   int      `json:"added" yaml:"added"`
	Updated int      `json:"updated" yaml:"updated"`
	IDs     []string `json:"ids" yaml:"ids"`
	Skipped []Skip   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Parse reads CSV rows. The first row is the header; columns are found by
// name and extra columns are ignored.
func Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewParseError("csv", "", "reading header", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	cols := map[string]int{
		"country":     column(header, countryColumns),
		"year":        column(header, yearColumns),
		"title":       column(header, titleColumns),
		"description": column(header, descriptionColumns),
		"category":    column(header, categoryColumns),
	}
	for _, required := range []string{"country", "year", "title"} {
		if cols[required] < 0 {
			return nil, errors.NewParseError("csv", "", "no "+required+" column in header", nil)
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParseError("csv", "", "reading rows", err)
		}
		line, _ := reader.FieldPos(0)
		get := func(name string) string {
			i := cols[name]
			if i < 0 || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		rows = append(rows, Row{
			Line:        line,
			Country:     get("country"),
			Year:        get("year"),
			Title:       get("title"),
			Description: get("description"),
			Category:    get("category"),
		})
	}
	return rows, nil
}

func column(header, names []string) int {
	for _, name := range names {
		for i, h := range header {
			if h == name {
				return i
			}
		}
	}
	return -1
}

// Apply appends rows to collection as gap records.
//
// Country names are resolved through idx first. A row whose (country, year,
// title) already exists only updates that record's category when the row
// names a different one. New records take their coordinates from the first
// record of the same country that has some.
func Apply(ctx context.Context, collection *events.Collection, rows []Row, idx *countries.Index, gapPrefix string) *Summary {
	logger := logging.FromContext(ctx)
	summary := &Summary{Rows: len(rows), IDs: []string{}}

	byKey := make(map[string]*events.Record, len(collection.Events))
	ids := make(map[string]struct{}, len(collection.Events))
	for _, rec := range collection.Events {
		if rec == nil {
			continue
		}
		if _, ok := byKey[rec.DuplicateKey()]; !ok {
			byKey[rec.DuplicateKey()] = rec
		}
		ids[rec.ID] = struct{}{}
	}

	skip := func(row Row, reason string) {
		summary.Skipped = append(summary.Skipped, Skip{Line: row.Line, Reason: reason})
		logger.Debug().Int("line", row.Line).Str("reason", reason).Msg("Skipping gap row")
	}

	for _, row := range rows {
		if row.Country == "" || row.Year == "" || row.Title == "" {
			skip(row, "missing country, year or title")
			continue
		}
		f, err := strconv.ParseFloat(row.Year, 64)
		if err != nil {
			skip(row, "invalid year "+strconv.Quote(row.Year))
			continue
		}
		year := int(f)

		country := row.Country
		if canon, ok := idx.Resolve(country); ok {
			country = canon.Name
		}
		category := row.Category
		if mapped, ok := categoryLabels[category]; ok {
			category = mapped
		}

		rec := &events.Record{
			CountryName: country,
			Year:        events.NewYear(year),
			Title:       row.Title,
		}
		if existing, ok := byKey[rec.DuplicateKey()]; ok {
			if category != "" && existing.Category != category {
				logging.FromContext(logging.WithEvent(ctx, existing.ID)).Debug().
					Str("from", existing.Category).
					Str("to", category).
					Msg("Updating category")
				existing.Category = category
				summary.Updated++
			}
			continue
		}

		n := 0
		for {
			rec.ID = events.GapID(gapPrefix, year, n)
			if _, taken := ids[rec.ID]; !taken {
				break
			}
			n++
		}
		rec.Lat, rec.Lon = coordinates(collection, country)
		rec.Decade = events.Decade(year)
		rec.Category = category
		if rec.Category == "" {
			rec.Category = events.CategoryGeneral
		}
		rec.Description = row.Description
		if rec.Description == "" {
			rec.Description = row.Title
		}
		rec.KeyFigures = []string{}

		collection.Events = append(collection.Events, rec)
		byKey[rec.DuplicateKey()] = rec
		ids[rec.ID] = struct{}{}
		summary.IDs = append(summary.IDs, rec.ID)
		summary.Added++
		logging.FromContext(logging.WithEvent(ctx, rec.ID)).Debug().
			Str("country", country).
			Int("line", row.Line).
			Msg("Gap event added")
	}
	return summary
}

func coordinates(collection *events.Collection, country string) (float64, float64) {
	for _, rec := range collection.Events {
		if rec != nil && rec.CountryName == country && rec.HasCoordinates() {
			return rec.Lat, rec.Lon
		}
	}
	return 0, 0
}
