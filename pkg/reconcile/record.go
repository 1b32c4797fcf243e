package reconcile

import (
	"strings"

	"github.com/agentstation/eventmap/pkg/countries"
	"github.com/agentstation/eventmap/pkg/events"
)

// RecordChanges describes what NormalizeRecord changed on one record.
type RecordChanges struct {
	CountryRenamed   bool
	NameTrimmed      bool
	CodeFilled       bool
	CodeStandardized bool
	DecadeUpdated    bool

	// Unresolved is set when a non-empty country name matched no
	// definition. It is not a change.
	Unresolved bool
}

// Any reports whether the record was modified.
func (c RecordChanges) Any() bool {
	return c.CountryRenamed || c.NameTrimmed || c.CodeFilled || c.CodeStandardized || c.DecadeUpdated
}

// NormalizeRecord rewrites the country name, country code and decade of
// record in place. It never fails: values it cannot resolve are trimmed and
// otherwise left alone.
//
// A resolved country replaces the name. The code is filled from the ISO code
// when empty and upper-cased when it has lower-case letters; an upper-case
// code that differs from the ISO code is an override and is kept. The decade
// is recomputed whenever the year is a number.
func NormalizeRecord(record *events.Record, idx *countries.Index) RecordChanges {
	var ch RecordChanges
	if record == nil {
		return ch
	}

	name := strings.TrimSpace(record.CountryName)
	canon, resolved := idx.Resolve(name)
	switch {
	case resolved && canon.Name != record.CountryName:
		if canon.Name == name {
			ch.NameTrimmed = true
		} else {
			ch.CountryRenamed = true
		}
		record.CountryName = canon.Name
	case !resolved:
		if name != record.CountryName {
			record.CountryName = name
			ch.NameTrimmed = true
		}
		ch.Unresolved = name != ""
	}

	code := strings.TrimSpace(record.CountryCode)
	upper := strings.ToUpper(code)
	switch {
	case resolved && canon.ISOCode != "" && code == "":
		record.CountryCode = canon.ISOCode
		ch.CodeFilled = true
	case code != "" && upper != code:
		record.CountryCode = upper
		ch.CodeStandardized = true
	}

	if decade, ok := record.Year.Decade(); ok && decade != record.Decade {
		record.Decade = decade
		ch.DecadeUpdated = true
	}

	return ch
}
