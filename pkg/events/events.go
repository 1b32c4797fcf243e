// Package events defines the historical event records and the collection
// they live in.
//
// Records decode leniently: a field whose JSON value has the wrong type is
// kept verbatim in Extra instead of failing the whole collection, and any
// field the package does not know about round-trips untouched.
package events

import (
	"encoding/json"
	"sort"
	"strings"
)

// Record is a single historical event tagged with a country.
type Record struct {
	ID           string
	CountryName  string
	CountryCode  string
	Lat          float64
	Lon          float64
	Year         Year
	Decade       string
	Category     string
	Title        string
	Description  string
	WikipediaURL string
	Casualties   *int64
	KeyFigures   []string

	// Extra holds fields not modeled above, and modeled fields whose value
	// could not be decoded, keyed by JSON name.
	Extra map[string]json.RawMessage
}

// HasCoordinates reports whether either coordinate is non-zero.
func (r *Record) HasCoordinates() bool {
	return r.Lat != 0 || r.Lon != 0
}

// DuplicateKey returns the key identifying "the same event":
// trimmed country name, year text and trimmed title.
func (r *Record) DuplicateKey() string {
	return strings.TrimSpace(r.CountryName) + "||" + r.Year.String() + "||" + strings.TrimSpace(r.Title)
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Year = r.Year.clone()
	if r.Casualties != nil {
		v := *r.Casualties
		c.Casualties = &v
	}
	if r.KeyFigures != nil {
		c.KeyFigures = append([]string(nil), r.KeyFigures...)
	}
	if r.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

// Category describes how a category is displayed.
type Category struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
	Tier  int    `json:"tier,omitempty" yaml:"tier,omitempty"`
}

// Collection is the unit the engine reconciles: category definitions plus events.
type Collection struct {
	Categories map[string]Category `json:"categories"`
	Events     []*Record           `json:"events"`
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{
		Categories: make(map[string]Category),
		Events:     []*Record{},
	}
}

// Clone returns a deep copy of c.
func (c *Collection) Clone() *Collection {
	if c == nil {
		return nil
	}
	out := &Collection{
		Categories: make(map[string]Category, len(c.Categories)),
		Events:     make([]*Record, 0, len(c.Events)),
	}
	for k, v := range c.Categories {
		out.Categories[k] = v
	}
	for _, r := range c.Events {
		if r == nil {
			continue
		}
		out.Events = append(out.Events, r.Clone())
	}
	return out
}

// Find returns the first record with the given id.
func (c *Collection) Find(id string) (*Record, bool) {
	for _, r := range c.Events {
		if r != nil && r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// CategoryKeys returns the defined category keys in sorted order.
func (c *Collection) CategoryKeys() []string {
	keys := make([]string, 0, len(c.Categories))
	for k := range c.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
