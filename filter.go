package eventmap

import (
	"sort"
	"strings"

	"github.com/agentstation/eventmap/internal/matcher"
	"github.com/agentstation/eventmap/pkg/errors"
	"github.com/agentstation/eventmap/pkg/events"
	"github.com/agentstation/eventmap/pkg/normalize"
)

// Filter selects records from a collection. Empty fields match everything.
type Filter struct {
	// Country is a glob or regex pattern compared diacritic- and case-insensitively.
	Country string
	// Decade matches the decade bucket exactly, e.g. "1920s".
	Decade string
	// Category matches the category key exactly.
	Category string
	// Search is a substring looked for in the title and description.
	Search string
	// Limit caps the number of records returned when positive.
	Limit int
}

// Apply returns the matching records, newest year first. Records without a
// valid year come last; ties keep collection order.
func (f Filter) Apply(collection *events.Collection) ([]*events.Record, error) {
	var country matcher.Matcher
	if p := strings.TrimSpace(f.Country); p != "" {
		m, err := matcher.New(matcher.Auto, p, &matcher.Options{Fold: true, Anchored: true})
		if err != nil {
			return nil, errors.WrapValidation("country", err)
		}
		country = m
	}
	search := normalize.Key(f.Search)

	out := []*events.Record{}
	if collection == nil {
		return out, nil
	}
	for _, rec := range collection.Events {
		if rec == nil {
			continue
		}
		if country != nil && !country.Match(rec.CountryName) {
			continue
		}
		if f.Decade != "" && rec.Decade != f.Decade {
			continue
		}
		if f.Category != "" && rec.Category != f.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(normalize.Key(rec.Title), search) &&
			!strings.Contains(normalize.Key(rec.Description), search) {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Year, out[j].Year
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Value > b.Value
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
