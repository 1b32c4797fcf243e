package reconcile

import (
	"encoding/json"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agentstation/eventmap/pkg/events"
)

// MergeFields folds the information of secondary into primary and reports
// whether primary changed. Values already on primary are kept; the only
// replacement is a strictly longer, different description. Every field
// secondary has and primary lacks ends up on primary.
func MergeFields(primary, secondary *events.Record) bool {
	if primary == nil || secondary == nil || primary == secondary {
		return false
	}
	changed := false

	pURL := strings.TrimSpace(primary.WikipediaURL)
	sURL := strings.TrimSpace(secondary.WikipediaURL)
	if pURL == "" && sURL != "" {
		primary.WikipediaURL = sURL
		changed = true
	}

	pDesc := strings.TrimSpace(primary.Description)
	sDesc := strings.TrimSpace(secondary.Description)
	switch {
	case pDesc == "" && sDesc != "":
		primary.Description = sDesc
		changed = true
	case utf8.RuneCountInString(sDesc) > utf8.RuneCountInString(pDesc) && sDesc != pDesc:
		primary.Description = sDesc
		changed = true
	}

	if primary.Lat == 0 && primary.Lon == 0 && secondary.HasCoordinates() {
		primary.Lat = secondary.Lat
		primary.Lon = secondary.Lon
		changed = true
	}

	sCat := strings.TrimSpace(secondary.Category)
	if strings.TrimSpace(primary.Category) == "" && sCat != "" {
		primary.Category = sCat
		changed = true
	}

	sDecade := strings.TrimSpace(secondary.Decade)
	if !primary.Year.Valid && strings.TrimSpace(primary.Decade) == "" && sDecade != "" {
		primary.Decade = sDecade
		changed = true
	}

	sCode := strings.TrimSpace(secondary.CountryCode)
	if strings.TrimSpace(primary.CountryCode) == "" && sCode != "" {
		primary.CountryCode = sCode
		changed = true
	}

	if primary.Casualties == nil && secondary.Casualties != nil {
		v := *secondary.Casualties
		primary.Casualties = &v
		changed = true
	}

	if merged, ok := unionKeyFigures(primary.KeyFigures, secondary.KeyFigures); ok {
		primary.KeyFigures = merged
		changed = true
	}

	if mergeExtra(primary, secondary) {
		changed = true
	}

	return changed
}

// unionKeyFigures returns the trimmed, de-duplicated union of a and b in
// first-seen order, and whether it differs from trimmed a.
func unionKeyFigures(a, b []string) ([]string, bool) {
	if len(a) == 0 && len(b) == 0 {
		return nil, false
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	merged := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			merged = append(merged, v)
		}
	}

	current := make([]string, len(a))
	for i, v := range a {
		current[i] = strings.TrimSpace(v)
	}
	if slices.Equal(merged, current) {
		return nil, false
	}
	return merged, true
}

// mergeExtra copies unmodeled fields that primary lacks, and the raw value
// of a modeled field that failed to decode on secondary when primary has
// nothing for that field. Tag lists are unioned.
func mergeExtra(primary, secondary *events.Record) bool {
	changed := false
	for name, value := range secondary.Extra {
		if name == tagsField {
			if mergeTags(primary, value) {
				changed = true
			}
			continue
		}
		if isEmptyJSON(value) {
			continue
		}
		if events.IsKnownField(name) && !primary.IsZeroField(name) {
			continue
		}
		if cur, ok := primary.Extra[name]; ok && !isEmptyJSON(cur) {
			continue
		}
		if primary.Extra == nil {
			primary.Extra = make(map[string]json.RawMessage)
		}
		primary.Extra[name] = append(json.RawMessage(nil), value...)
		changed = true
	}
	return changed
}

const tagsField = "tags"

// mergeTags sets primary's tags to the sorted union of the trimmed,
// non-empty tags on both sides. A side whose tags are not a list adds
// nothing.
func mergeTags(primary *events.Record, value json.RawMessage) bool {
	theirs, ok := tagList(value)
	if !ok {
		return false
	}
	cur := primary.Extra[tagsField]
	ours, _ := tagList(cur)

	set := make(map[string]struct{}, len(ours)+len(theirs))
	for _, t := range append(ours, theirs...) {
		set[t] = struct{}{}
	}
	if len(set) == 0 {
		return false
	}
	union := make([]string, 0, len(set))
	for t := range set {
		union = append(union, t)
	}
	sort.Strings(union)

	if slices.Equal(union, ours) {
		return false
	}
	raw, err := json.Marshal(union)
	if err != nil {
		return false
	}
	if primary.Extra == nil {
		primary.Extra = make(map[string]json.RawMessage)
	}
	primary.Extra[tagsField] = raw
	return true
}

// tagList decodes a JSON list of tags. Non-string entries keep their JSON
// text; blank entries are dropped.
func tagList(value json.RawMessage) ([]string, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil || items == nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			s = string(item)
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

func isEmptyJSON(v json.RawMessage) bool {
	switch strings.TrimSpace(string(v)) {
	case "", "null", `""`, "[]", "{}":
		return true
	}
	return false
}
