package reconcile

import (
	"cmp"
	"strings"
	"unicode/utf8"

	"github.com/agentstation/eventmap/pkg/events"
)

// Rank scores how complete a record is. Fields are compared in declaration
// order; the first difference decides. The trailing ID makes the order
// total for records with distinct ids.
type Rank struct {
	NotGap         int
	HasCoordinates int
	HasURL         int
	DescriptionLen int
	HasCasualties  int
	KeyFigures     int
	ID             string
}

// RankOf returns the rank of record. Records whose id starts with gapPrefix
// are placeholders and rank below every real record.
func RankOf(record *events.Record, gapPrefix string) Rank {
	if record == nil {
		return Rank{}
	}
	return Rank{
		NotGap:         1 - boolInt(events.IsGap(record.ID, gapPrefix)),
		HasCoordinates: boolInt(record.HasCoordinates()),
		HasURL:         boolInt(strings.TrimSpace(record.WikipediaURL) != ""),
		DescriptionLen: utf8.RuneCountInString(strings.TrimSpace(record.Description)),
		HasCasualties:  boolInt(record.Casualties != nil),
		KeyFigures:     len(record.KeyFigures),
		ID:             record.ID,
	}
}

// Compare returns -1, 0 or +1 depending on whether r ranks below, equal to
// or above other.
func (r Rank) Compare(other Rank) int {
	if c := cmp.Compare(r.NotGap, other.NotGap); c != 0 {
		return c
	}
	if c := cmp.Compare(r.HasCoordinates, other.HasCoordinates); c != 0 {
		return c
	}
	if c := cmp.Compare(r.HasURL, other.HasURL); c != 0 {
		return c
	}
	if c := cmp.Compare(r.DescriptionLen, other.DescriptionLen); c != 0 {
		return c
	}
	if c := cmp.Compare(r.HasCasualties, other.HasCasualties); c != 0 {
		return c
	}
	if c := cmp.Compare(r.KeyFigures, other.KeyFigures); c != 0 {
		return c
	}
	return strings.Compare(r.ID, other.ID)
}

// IsBetter reports whether a ranks strictly above b.
func IsBetter(a, b Rank) bool {
	return a.Compare(b) > 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
