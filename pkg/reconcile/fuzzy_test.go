package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/eventmap/pkg/events"
	"github.com/agentstation/eventmap/pkg/reconcile"
)

func TestFindProbableDuplicates(t *testing.T) {
	tests := []struct {
		name   string
		a, b   *events.Record
		reason reconcile.MatchReason
		match  bool
	}{
		{
			name:   "same url",
			a:      &events.Record{ID: "a", CountryName: "Türkiye", Year: events.NewYear(1920), Title: "TBMM açıldı", WikipediaURL: "https://tr.wikipedia.org/wiki/TBMM"},
			b:      &events.Record{ID: "b", CountryName: "Türkiye", Year: events.NewYear(1920), Title: "Meclis kuruldu", WikipediaURL: " https://tr.wikipedia.org/wiki/TBMM "},
			reason: reconcile.ReasonSameURL,
			match:  true,
		},
		{
			name:   "same title after punctuation",
			a:      &events.Record{ID: "a", CountryName: "ABD", Year: events.NewYear(1991), Title: "The Silence of the Lambs", Category: events.CategoryCinema},
			b:      &events.Record{ID: "b", CountryName: "ABD", Year: events.NewYear(1991), Title: "The Silence of the Lambs!", Category: events.CategoryMusic},
			reason: reconcile.ReasonSameTitle,
			match:  true,
		},
		{
			name:   "near identical titles across categories",
			a:      &events.Record{ID: "a", CountryName: "Türkiye", Year: events.NewYear(1923), Title: "Treaty of Lausanne signed by delegations", Category: events.CategoryPolitics},
			b:      &events.Record{ID: "b", CountryName: "Türkiye", Year: events.NewYear(1923), Title: "Treaty of Lausanne signed by delegation", Category: events.CategoryWar},
			reason: reconcile.ReasonSimilarTitle,
			match:  true,
		},
		{
			name:   "same words close spelling in same category",
			a:      &events.Record{ID: "a", CountryName: "Türkiye", Year: events.NewYear(1921), Title: "Battle of Sakarya", Category: events.CategoryWar},
			b:      &events.Record{ID: "b", CountryName: "Türkiye", Year: events.NewYear(1921), Title: "The Battle of Sakarya", Category: events.CategoryWar},
			reason: reconcile.ReasonSimilarTitle,
			match:  true,
		},
		{
			name:  "same words close spelling in other category",
			a:     &events.Record{ID: "a", CountryName: "Türkiye", Year: events.NewYear(1921), Title: "Battle of Sakarya", Category: events.CategoryWar},
			b:     &events.Record{ID: "b", CountryName: "Türkiye", Year: events.NewYear(1921), Title: "The Battle of Sakarya", Category: events.CategoryPolitics},
			match: false,
		},
		{
			name:  "reordered words are not similar enough",
			a:     &events.Record{ID: "a", CountryName: "Türkiye", Year: events.NewYear(1921), Title: "Battle of Sakarya River", Category: events.CategoryWar},
			b:     &events.Record{ID: "b", CountryName: "Türkiye", Year: events.NewYear(1921), Title: "Sakarya River Battle", Category: events.CategoryWar},
			match: false,
		},
		{
			name:  "close spelling with different words",
			a:     &events.Record{ID: "a", CountryName: "Türkiye", Year: events.NewYear(1955), Title: "Istanbul pogrom", Category: events.CategoryPolitics},
			b:     &events.Record{ID: "b", CountryName: "Türkiye", Year: events.NewYear(1955), Title: "Istanbul pogroms", Category: events.CategoryPolitics},
			match: false,
		},
		{
			name:  "different year",
			a:     &events.Record{ID: "a", CountryName: "ABD", Year: events.NewYear(1991), Title: "The Silence of the Lambs"},
			b:     &events.Record{ID: "b", CountryName: "ABD", Year: events.NewYear(1992), Title: "The Silence of the Lambs!"},
			match: false,
		},
		{
			name:  "different country",
			a:     &events.Record{ID: "a", CountryName: "ABD", Year: events.NewYear(1991), Title: "The Silence of the Lambs"},
			b:     &events.Record{ID: "b", CountryName: "Fransa", Year: events.NewYear(1991), Title: "The Silence of the Lambs!"},
			match: false,
		},
		{
			name:  "blank titles",
			a:     &events.Record{ID: "a", CountryName: "ABD", Year: events.NewYear(1991)},
			b:     &events.Record{ID: "b", CountryName: "ABD", Year: events.NewYear(1991), Title: "!!"},
			match: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &events.Collection{Events: []*events.Record{tt.a, tt.b}}
			groups := reconcile.FindProbableDuplicates(c)
			if !tt.match {
				assert.Empty(t, groups)
				return
			}
			require.Len(t, groups, 1)
			assert.Equal(t, []string{"a", "b"}, groups[0].IDs)
			assert.Equal(t, []reconcile.MatchReason{tt.reason}, groups[0].Reasons)
			assert.Equal(t, tt.a.Year.String(), groups[0].Year)
		})
	}
}

func TestFindProbableDuplicatesTransitive(t *testing.T) {
	a := &events.Record{ID: "a", CountryName: "Fransa", Year: events.NewYear(1789), Title: "Bastille baskını", WikipediaURL: "https://example.org/bastille"}
	b := &events.Record{ID: "b", CountryName: "Fransa", Year: events.NewYear(1789), Title: "Storming of the Bastille", WikipediaURL: "https://example.org/bastille"}
	c := &events.Record{ID: "c", CountryName: "Fransa", Year: events.NewYear(1789), Title: "Storming of the Bastille."}
	other := &events.Record{ID: "d", CountryName: "Fransa", Year: events.NewYear(1789), Title: "Estates General"}

	groups := reconcile.FindProbableDuplicates(&events.Collection{Events: []*events.Record{a, other, b, c}})
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"a", "b", "c"}, groups[0].IDs)
	assert.Equal(t, "Fransa", groups[0].Country)
	assert.Equal(t, "1789", groups[0].Year)
	assert.Equal(t, []reconcile.MatchReason{reconcile.ReasonSameURL, reconcile.ReasonSameTitle}, groups[0].Reasons)
}

func TestFindProbableDuplicatesNil(t *testing.T) {
	assert.Nil(t, reconcile.FindProbableDuplicates(nil))
	assert.Empty(t, reconcile.FindProbableDuplicates(&events.Collection{Events: []*events.Record{nil, nil}}))
}

func TestMergeProbable(t *testing.T) {
	thin := &events.Record{ID: "ev_a", CountryName: "ABD", Year: events.NewYear(1991), Title: "The Silence of the Lambs", KeyFigures: []string{"Jodie Foster"}}
	rich := &events.Record{ID: "ev_b", CountryName: "ABD", Year: events.NewYear(1991), Title: "The Silence of the Lambs!", Lat: 40.7, Lon: -74.0, Description: "Film"}
	other := &events.Record{ID: "ev_c", CountryName: "ABD", Year: events.NewYear(1991), Title: "Gulf War"}

	var merged [][2]string
	r := newReconciler(t, reconcile.WithOnMerged(func(survivor, absorbed *events.Record) {
		merged = append(merged, [2]string{survivor.ID, absorbed.ID})
	}))

	c := &events.Collection{Events: []*events.Record{thin, other, rich}}
	groups := r.MergeProbable(context.Background(), c)

	require.Len(t, groups, 1)
	require.Len(t, c.Events, 2)
	assert.Equal(t, "ev_c", c.Events[0].ID)
	assert.Equal(t, "ev_b", c.Events[1].ID)
	assert.Equal(t, []string{"Jodie Foster"}, c.Events[1].KeyFigures)
	assert.Equal(t, [][2]string{{"ev_b", "ev_a"}}, merged)

	assert.Empty(t, r.MergeProbable(context.Background(), c))
	assert.Len(t, c.Events, 2)
}
