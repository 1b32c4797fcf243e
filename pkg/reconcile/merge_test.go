package reconcile_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/eventmap/pkg/events"
	"github.com/agentstation/eventmap/pkg/reconcile"
)

func TestMergeFills(t *testing.T) {
	primary := &events.Record{ID: "p"}
	secondary := &events.Record{
		ID:           "s",
		WikipediaURL: " https://example.org/x ",
		Description:  " desc ",
		Lat:          39.9,
		Lon:          32.8,
		CountryCode:  " TR ",
		Casualties:   int64p(12),
		KeyFigures:   []string{" Atatürk ", "", "Atatürk"},
	}

	assert.True(t, reconcile.MergeFields(primary, secondary))
	assert.Equal(t, "https://example.org/x", primary.WikipediaURL)
	assert.Equal(t, "desc", primary.Description)
	assert.Equal(t, 39.9, primary.Lat)
	assert.Equal(t, 32.8, primary.Lon)
	assert.Equal(t, "TR", primary.CountryCode)
	require.NotNil(t, primary.Casualties)
	assert.Equal(t, int64(12), *primary.Casualties)
	assert.Equal(t, []string{"Atatürk"}, primary.KeyFigures)

	// The secondary's pointer is not shared.
	*secondary.Casualties = 99
	assert.Equal(t, int64(12), *primary.Casualties)
}

func TestMergeKeepsPrimary(t *testing.T) {
	primary := &events.Record{
		ID:           "p",
		WikipediaURL: "https://example.org/p",
		Description:  "primary description",
		Lat:          1,
		CountryCode:  "UK",
		Casualties:   int64p(0),
		KeyFigures:   []string{"A", "B"},
	}
	secondary := &events.Record{
		ID:           "s",
		WikipediaURL: "https://example.org/s",
		Description:  "short",
		Lat:          5,
		Lon:          5,
		CountryCode:  "GB",
		Casualties:   int64p(100),
		KeyFigures:   []string{"B", "A"},
	}

	assert.False(t, reconcile.MergeFields(primary, secondary))
	assert.Equal(t, "https://example.org/p", primary.WikipediaURL)
	assert.Equal(t, "primary description", primary.Description)
	assert.Equal(t, 1.0, primary.Lat)
	assert.Equal(t, 0.0, primary.Lon)
	assert.Equal(t, "UK", primary.CountryCode)
	assert.Equal(t, int64(0), *primary.Casualties)
	assert.Equal(t, []string{"A", "B"}, primary.KeyFigures)
}

func TestMergeDescription(t *testing.T) {
	tests := []struct {
		name      string
		primary   string
		secondary string
		want      string
		changed   bool
	}{
		{"longer replaces", "short", "much longer text", "much longer text", true},
		{"shorter ignored", "much longer text", "short", "much longer text", false},
		{"equal length ignored", "abcde", "vwxyz", "abcde", false},
		{"padding does not count", "text", "  text  ", "text", false},
		{"empty filled", "", "text", "text", true},
		{"runes not bytes", "çğış", "abcde", "abcde", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &events.Record{ID: "p", Description: tt.primary}
			s := &events.Record{ID: "s", Description: tt.secondary}
			assert.Equal(t, tt.changed, reconcile.MergeFields(p, s))
			assert.Equal(t, tt.want, p.Description)
		})
	}
}

func TestMergeKeyFiguresUnion(t *testing.T) {
	p := &events.Record{ID: "p", KeyFigures: []string{"Mustafa Kemal", "İsmet"}}
	s := &events.Record{ID: "s", KeyFigures: []string{"ismet", "İsmet", "Kazım Karabekir"}}

	assert.True(t, reconcile.MergeFields(p, s))
	// Dedup is case-sensitive.
	assert.Equal(t, []string{"Mustafa Kemal", "İsmet", "ismet", "Kazım Karabekir"}, p.KeyFigures)
}

func TestMergeExtraFields(t *testing.T) {
	p := &events.Record{ID: "p", Extra: map[string]json.RawMessage{
		"tags":             json.RawMessage(`["a"]`),
		"youtube_video_id": json.RawMessage(`""`),
	}}
	s := &events.Record{ID: "s", Extra: map[string]json.RawMessage{
		"tags":             json.RawMessage(`["b"]`),
		"youtube_video_id": json.RawMessage(`"abc123"`),
		"source_url":       json.RawMessage(`"https://example.org"`),
		"casualties":       json.RawMessage(`"many"`),
	}}

	assert.True(t, reconcile.MergeFields(p, s))
	assert.JSONEq(t, `["a", "b"]`, string(p.Extra["tags"]))
	assert.JSONEq(t, `"abc123"`, string(p.Extra["youtube_video_id"]))
	assert.JSONEq(t, `"https://example.org"`, string(p.Extra["source_url"]))
	// The primary has no casualty count, so the unreadable one is kept.
	assert.JSONEq(t, `"many"`, string(p.Extra["casualties"]))
}

func TestMergeTags(t *testing.T) {
	tests := []struct {
		name      string
		primary   string
		secondary string
		want      string
		changed   bool
	}{
		{"union sorted", `["war", " Anadolu "]`, `["anadolu", "Anadolu", ""]`, `["Anadolu", "anadolu", "war"]`, true},
		{"fills missing", ``, `["b", "a", "b"]`, `["a", "b"]`, true},
		{"already sorted union", `["a", "b"]`, `["b"]`, `["a", "b"]`, false},
		{"empty lists", `[]`, `[" ", ""]`, `[]`, false},
		{"non list secondary ignored", `["a"]`, `"b"`, `["a"]`, false},
		{"non string tags kept as text", ``, `[1920, "x"]`, `["1920", "x"]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &events.Record{ID: "p"}
			if tt.primary != "" {
				p.Extra = map[string]json.RawMessage{"tags": json.RawMessage(tt.primary)}
			}
			s := &events.Record{ID: "s", Extra: map[string]json.RawMessage{"tags": json.RawMessage(tt.secondary)}}

			assert.Equal(t, tt.changed, reconcile.MergeFields(p, s))
			if tt.primary == "" && !tt.changed {
				assert.NotContains(t, p.Extra, "tags")
				return
			}
			assert.JSONEq(t, tt.want, string(p.Extra["tags"]))
		})
	}
}

func TestMergeFillsCategoryAndDecade(t *testing.T) {
	p := &events.Record{ID: "p", Decade: " "}
	s := &events.Record{ID: "s", Category: " war ", Decade: "1920s"}

	assert.True(t, reconcile.MergeFields(p, s))
	assert.Equal(t, events.CategoryWar, p.Category)
	assert.Equal(t, "1920s", p.Decade)

	// A valid year owns the decade, and a set category stays.
	p = &events.Record{ID: "p", Category: events.CategoryPolitics, Year: events.NewYear(1923)}
	assert.False(t, reconcile.MergeFields(p, s))
	assert.Equal(t, events.CategoryPolitics, p.Category)
	assert.Empty(t, p.Decade)
}

func TestMergeKeepsUnreadableCasualties(t *testing.T) {
	var s events.Record
	require.NoError(t, json.Unmarshal([]byte(`{"id": "s", "casualties": "about 500"}`), &s))
	require.Nil(t, s.Casualties)

	p := &events.Record{ID: "p"}
	assert.True(t, reconcile.MergeFields(p, &s))
	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"casualties":"about 500"`)

	// A readable count on the primary wins.
	p = &events.Record{ID: "p", Casualties: int64p(3)}
	assert.False(t, reconcile.MergeFields(p, &s))
	assert.NotContains(t, p.Extra, "casualties")
}

func TestMergeSelfAndNil(t *testing.T) {
	r := &events.Record{ID: "p"}
	assert.False(t, reconcile.MergeFields(r, r))
	assert.False(t, reconcile.MergeFields(nil, r))
	assert.False(t, reconcile.MergeFields(r, nil))
}
