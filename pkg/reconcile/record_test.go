package reconcile_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/eventmap/pkg/countries"
	"github.com/agentstation/eventmap/pkg/events"
	"github.com/agentstation/eventmap/pkg/reconcile"
)

func TestNormalizeRecord(t *testing.T) {
	idx := countries.BuildIndex(testDefinitions())

	tests := []struct {
		name       string
		record     events.Record
		wantName   string
		wantCode   string
		wantDecade string
		want       reconcile.RecordChanges
	}{
		{
			name:     "alias renamed and code filled",
			record:   events.Record{CountryName: "Turkey"},
			wantName: "Türkiye",
			wantCode: "TR",
			want:     reconcile.RecordChanges{CountryRenamed: true, CodeFilled: true},
		},
		{
			name:     "canonical with padding is trimmed",
			record:   events.Record{CountryName: " Türkiye ", CountryCode: "TR"},
			wantName: "Türkiye",
			wantCode: "TR",
			want:     reconcile.RecordChanges{NameTrimmed: true},
		},
		{
			name:     "lower-case code is upper-cased not replaced",
			record:   events.Record{CountryName: "Ingiltere", CountryCode: "uk"},
			wantName: "Birleşik Krallık",
			wantCode: "UK",
			want:     reconcile.RecordChanges{CountryRenamed: true, CodeStandardized: true},
		},
		{
			name:     "upper-case override kept",
			record:   events.Record{CountryName: "Birleşik Krallık", CountryCode: "UK"},
			wantName: "Birleşik Krallık",
			wantCode: "UK",
		},
		{
			name:     "unresolved keeps name and upper-cases code",
			record:   events.Record{CountryName: "Atlantis", CountryCode: "xx"},
			wantName: "Atlantis",
			wantCode: "XX",
			want:     reconcile.RecordChanges{CodeStandardized: true, Unresolved: true},
		},
		{
			name:     "empty country",
			record:   events.Record{},
			wantName: "",
			wantCode: "",
		},
		{
			name:       "decade recomputed",
			record:     events.Record{CountryName: "Fransa", CountryCode: "FR", Year: events.NewYear(1789), Decade: "1700s"},
			wantName:   "Fransa",
			wantCode:   "FR",
			wantDecade: "1780s",
			want:       reconcile.RecordChanges{DecadeUpdated: true},
		},
		{
			name:       "decade already right",
			record:     events.Record{CountryName: "Fransa", CountryCode: "FR", Year: events.NewYear(1789), Decade: "1780s"},
			wantName:   "Fransa",
			wantCode:   "FR",
			wantDecade: "1780s",
		},
		{
			name:       "invalid year keeps decade",
			record:     events.Record{CountryName: "Fransa", CountryCode: "FR", Decade: "1780s"},
			wantName:   "Fransa",
			wantCode:   "FR",
			wantDecade: "1780s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.record
			got := reconcile.NormalizeRecord(&rec, idx)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Any(), got.Any())
			assert.Equal(t, tt.wantName, rec.CountryName)
			assert.Equal(t, tt.wantCode, rec.CountryCode)
			assert.Equal(t, tt.wantDecade, rec.Decade)
		})
	}
}

func TestNormalizeRecordOutOfRangeYearKeepsDecade(t *testing.T) {
	idx := countries.BuildIndex(testDefinitions())
	for _, year := range []string{"1e20", "-1e20", "1.5e300"} {
		t.Run(year, func(t *testing.T) {
			var rec events.Record
			require.NoError(t, json.Unmarshal([]byte(`{"country_name": "Fransa", "country_code": "FR", "year": `+year+`, "decade": "1780s"}`), &rec))
			require.False(t, rec.Year.Valid)

			assert.False(t, reconcile.NormalizeRecord(&rec, idx).Any())
			assert.Equal(t, "1780s", rec.Decade)

			out, err := json.Marshal(rec)
			require.NoError(t, err)
			assert.Contains(t, string(out), `"year":`+year)
		})
	}
}

func TestNormalizeRecordUnresolvedIsNotAChange(t *testing.T) {
	idx := countries.BuildIndex(testDefinitions())
	rec := events.Record{CountryName: "Atlantis"}
	ch := reconcile.NormalizeRecord(&rec, idx)
	assert.True(t, ch.Unresolved)
	assert.False(t, ch.Any())
}

func TestNormalizeRecordNil(t *testing.T) {
	assert.False(t, reconcile.NormalizeRecord(nil, nil).Any())

	rec := events.Record{CountryName: " Türkiye "}
	ch := reconcile.NormalizeRecord(&rec, nil)
	assert.Equal(t, "Türkiye", rec.CountryName)
	assert.True(t, ch.NameTrimmed)
	assert.True(t, ch.Unresolved)
}

func TestNormalizeRecordFollowsClaimedCanonicalName(t *testing.T) {
	// "Georgia" the US state is defined first and claims the key that the
	// country's canonical name normalizes to.
	idx := countries.BuildIndex([]countries.Definition{
		{CanonicalName: "Gürcistan", ISOCode: "GE", Aliases: []string{"Georgia"}},
		{CanonicalName: "Georgia", ISOCode: "US"},
	})
	rec := events.Record{CountryName: "Georgia"}
	reconcile.NormalizeRecord(&rec, idx)
	assert.Equal(t, "Gürcistan", rec.CountryName)
	assert.Equal(t, "GE", rec.CountryCode)

	again := rec
	assert.False(t, reconcile.NormalizeRecord(&again, idx).Any())
}
