package reconcile_test

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agentstation/eventmap/pkg/countries"
	"github.com/agentstation/eventmap/pkg/events"
	"github.com/agentstation/eventmap/pkg/reconcile"
)

var (
	countryPool     = []string{"turkiye", "Türkiye", " TURKEY ", "Ingiltere", "UK", "Atlantis", "", "France"}
	codePool        = []string{"", "tr", "TR", "uk", "GB", " gb"}
	yearPool        = []events.Year{events.NewYear(1920), events.NewYear(1921), events.NewYear(-5), {}}
	titlePool       = []string{"Kurtuluş", " Kurtuluş ", "Lozan"}
	descriptionPool = []string{"", "kısa", "  daha uzun bir açıklama  ", "x"}
	figurePool      = [][]string{nil, {"Atatürk"}, {"İnönü", "Atatürk"}, {"", "Karabekir"}}
)

// recordFromSeed maps a seed onto a record drawn from the pools above. The
// index keeps IDs unique; every fifth record is a gap record.
func recordFromSeed(i, seed int) *events.Record {
	pick := func(n int) int {
		v := seed % n
		seed /= n
		return v
	}
	rec := &events.Record{
		ID:          fmt.Sprintf("ev_%d", i),
		CountryName: countryPool[pick(len(countryPool))],
		CountryCode: codePool[pick(len(codePool))],
		Year:        yearPool[pick(len(yearPool))],
		Title:       titlePool[pick(len(titlePool))],
		Description: descriptionPool[pick(len(descriptionPool))],
		KeyFigures:  slices.Clone(figurePool[pick(len(figurePool))]),
		Category:    []string{events.CategoryWar, "spor", ""}[pick(3)],
	}
	if !rec.Year.Valid && pick(2) == 1 {
		rec.Decade = "1920s"
	}
	if pick(2) == 1 {
		rec.Lat, rec.Lon = 39.9, 32.8
	}
	if pick(2) == 1 {
		rec.WikipediaURL = "https://tr.wikipedia.org/wiki/" + rec.ID
	}
	if pick(2) == 1 {
		v := int64(pick(1000))
		rec.Casualties = &v
	}
	if i%5 == 0 {
		rec.ID = events.GapID(events.DefaultGapPrefix, 1920, i)
	}
	return rec
}

func collectionFromSeeds(seeds []int) *events.Collection {
	c := events.NewCollection()
	for i, s := range seeds {
		c.Events = append(c.Events, recordFromSeed(i, s))
	}
	return c
}

func seedsGen() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, 1<<20))
}

func TestReconcileIsIdempotentProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	r := newReconciler(t)

	properties.Property("second pass changes nothing", prop.ForAll(
		func(seeds []int) bool {
			c := collectionFromSeeds(seeds)
			ctx := context.Background()
			r.Reconcile(ctx, c, testDefinitions())
			first, err := json.Marshal(c)
			if err != nil {
				return false
			}

			second := r.Reconcile(ctx, c, testDefinitions())
			again, err := json.Marshal(c)
			if err != nil {
				return false
			}
			return !second.Changed() && string(first) == string(again)
		},
		seedsGen(),
	))

	properties.TestingRun(t)
}

func TestReconcileKeepsInformation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	r := newReconciler(t)

	properties.Property("survivor holds what its group held", prop.ForAll(
		func(seeds []int) bool {
			idx := countries.BuildIndex(testDefinitions())
			input := collectionFromSeeds(seeds).Clone()
			for _, rec := range input.Events {
				reconcile.NormalizeRecord(rec, idx)
			}

			c := collectionFromSeeds(seeds)
			r.Reconcile(context.Background(), c, testDefinitions())

			survivors := make(map[string]*events.Record)
			for _, rec := range c.Events {
				if _, dup := survivors[rec.DuplicateKey()]; dup {
					return false
				}
				survivors[rec.DuplicateKey()] = rec
			}

			for _, in := range input.Events {
				s, ok := survivors[in.DuplicateKey()]
				if !ok {
					return false
				}
				if in.HasCoordinates() && !s.HasCoordinates() {
					return false
				}
				if in.Casualties != nil && s.Casualties == nil {
					return false
				}
				if strings.TrimSpace(in.WikipediaURL) != "" && strings.TrimSpace(s.WikipediaURL) == "" {
					return false
				}
				if in.Category != "" && s.Category == "" {
					return false
				}
				if in.Decade != "" && s.Decade == "" {
					return false
				}
				if runeLen(in.Description) > runeLen(s.Description) {
					return false
				}
				for _, f := range in.KeyFigures {
					if strings.TrimSpace(f) != "" && !containsTrimmed(s.KeyFigures, f) {
						return false
					}
				}
			}
			return len(c.Events) == len(survivors)
		},
		seedsGen(),
	))

	properties.TestingRun(t)
}

func TestRankIsTotal(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("exactly one of better, worse or equal", prop.ForAll(
		func(a, b, c int) bool {
			ra := reconcile.RankOf(recordFromSeed(a%7, a), events.DefaultGapPrefix)
			rb := reconcile.RankOf(recordFromSeed(b%7, b), events.DefaultGapPrefix)
			rc := reconcile.RankOf(recordFromSeed(c%7, c), events.DefaultGapPrefix)

			if ra.Compare(rb) != -rb.Compare(ra) {
				return false
			}
			if (ra.Compare(rb) == 0) != (ra == rb) {
				return false
			}
			if reconcile.IsBetter(ra, rb) && reconcile.IsBetter(rb, ra) {
				return false
			}
			if reconcile.IsBetter(ra, rb) && reconcile.IsBetter(rb, rc) && !reconcile.IsBetter(ra, rc) {
				return false
			}
			return true
		},
		gen.IntRange(0, 1<<20),
		gen.IntRange(0, 1<<20),
		gen.IntRange(0, 1<<20),
	))

	properties.TestingRun(t)
}

func TestCanonicalizeIgnoresCaseAndDots(t *testing.T) {
	idx := countries.BuildIndex(testDefinitions())
	spellings := []string{"turkiye", "Türkiye", "TÜRKİYE", "Turkıye", "TURKIYE", "türkıye"}

	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("every case variant resolves to Türkiye", prop.ForAll(
		func(which int, mask uint32) bool {
			name := flipCase(spellings[which], mask)
			canon, ok := idx.Resolve(name)
			return ok && canon.Name == "Türkiye" && canon.ISOCode == "TR"
		},
		gen.IntRange(0, len(spellings)-1),
		gen.UInt32(),
	))

	properties.TestingRun(t)
}

// flipCase upper-cases the runes of s selected by the bits of mask.
func flipCase(s string, mask uint32) string {
	var b strings.Builder
	i := 0
	for _, r := range s {
		if mask&(1<<(i%32)) != 0 {
			r = unicode.ToUpper(r)
		} else {
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
		i++
	}
	return b.String()
}

func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func containsTrimmed(list []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, s := range list {
		if strings.TrimSpace(s) == v {
			return true
		}
	}
	return false
}
