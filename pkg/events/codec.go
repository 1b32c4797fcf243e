package events

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Field names in the order records are written.
const (
	FieldID           = "id"
	FieldCountryName  = "country_name"
	FieldCountryCode  = "country_code"
	FieldLat          = "lat"
	FieldLon          = "lon"
	FieldYear         = "year"
	FieldDecade       = "decade"
	FieldCategory     = "category"
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldWikipediaURL = "wikipedia_url"
	FieldCasualties   = "casualties"
	FieldKeyFigures   = "key_figures"
)

var fieldOrder = []string{
	FieldID, FieldCountryName, FieldCountryCode, FieldLat, FieldLon, FieldYear,
	FieldDecade, FieldCategory, FieldTitle, FieldDescription, FieldWikipediaURL,
	FieldCasualties, FieldKeyFigures,
}

var knownFields = func() map[string]struct{} {
	m := make(map[string]struct{}, len(fieldOrder))
	for _, f := range fieldOrder {
		m[f] = struct{}{}
	}
	return m
}()

// IsKnownField reports whether name is one of the modeled record fields.
func IsKnownField(name string) bool {
	_, ok := knownFields[name]
	return ok
}

// UnmarshalJSON decodes a record. A modeled field with an unexpected type
// is stored in Extra and its typed field is left empty.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = Record{}
	for name, value := range fields {
		if IsKnownField(name) && r.decodeField(name, value) == nil {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]json.RawMessage)
		}
		r.Extra[name] = value
	}
	return nil
}

func (r *Record) decodeField(name string, value json.RawMessage) error {
	switch name {
	case FieldID:
		return decodeInto(value, &r.ID)
	case FieldCountryName:
		return decodeInto(value, &r.CountryName)
	case FieldCountryCode:
		return decodeInto(value, &r.CountryCode)
	case FieldLat:
		return decodeInto(value, &r.Lat)
	case FieldLon:
		return decodeInto(value, &r.Lon)
	case FieldYear:
		return decodeInto(value, &r.Year)
	case FieldDecade:
		return decodeInto(value, &r.Decade)
	case FieldCategory:
		return decodeInto(value, &r.Category)
	case FieldTitle:
		return decodeInto(value, &r.Title)
	case FieldDescription:
		return decodeInto(value, &r.Description)
	case FieldWikipediaURL:
		return decodeInto(value, &r.WikipediaURL)
	case FieldCasualties:
		return decodeInto(value, &r.Casualties)
	case FieldKeyFigures:
		return decodeInto(value, &r.KeyFigures)
	}
	return nil
}

// decodeInto sets *dst only when value decodes cleanly. json.Unmarshal may
// allocate pointers or fill slices before it reports a type error.
func decodeInto[T any](value json.RawMessage, dst *T) error {
	var v T
	if err := json.Unmarshal(value, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}

func (r *Record) fieldValue(name string) any {
	switch name {
	case FieldID:
		return r.ID
	case FieldCountryName:
		return r.CountryName
	case FieldCountryCode:
		return r.CountryCode
	case FieldLat:
		return r.Lat
	case FieldLon:
		return r.Lon
	case FieldYear:
		return r.Year
	case FieldDecade:
		return r.Decade
	case FieldCategory:
		return r.Category
	case FieldTitle:
		return r.Title
	case FieldDescription:
		return r.Description
	case FieldWikipediaURL:
		return r.WikipediaURL
	case FieldCasualties:
		return r.Casualties
	case FieldKeyFigures:
		if r.KeyFigures == nil {
			return []string{}
		}
		return r.KeyFigures
	}
	return nil
}

// IsZeroField reports whether the modeled field name holds no value, in
// which case a raw value kept in Extra is written in its place.
func (r *Record) IsZeroField(name string) bool {
	switch name {
	case FieldLat:
		return r.Lat == 0
	case FieldLon:
		return r.Lon == 0
	case FieldYear:
		return !r.Year.Valid && len(r.Year.raw) == 0
	case FieldCasualties:
		return r.Casualties == nil
	case FieldKeyFigures:
		return len(r.KeyFigures) == 0
	}
	s, _ := r.fieldValue(name).(string)
	return s == ""
}

// MarshalJSON writes modeled fields in a fixed order followed by extra
// fields sorted by name. A modeled field that failed to decode is written
// from Extra until it is given a value.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	write := func(name string, value []byte) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}

	for _, name := range fieldOrder {
		value, ok := r.Extra[name]
		if !ok || !r.IsZeroField(name) {
			var err error
			if value, err = marshalNoEscape(r.fieldValue(name)); err != nil {
				return nil, err
			}
		}
		if err := write(name, value); err != nil {
			return nil, err
		}
	}

	extra := make([]string, 0, len(r.Extra))
	for name := range r.Extra {
		if !IsKnownField(name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		if err := write(name, r.Extra[name]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalNoEscape encodes v without HTML escaping so descriptions and URLs
// stay readable in the stored file.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
