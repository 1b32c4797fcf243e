// Package countries resolves free-text country names to canonical entries.
//
// A list of Definitions (canonical display name, ISO code, alias spellings)
// is compiled into an Index that maps every normalized alias to one
// Canonical value. When two definitions claim the same normalized alias the
// first one wins; later claims are recorded as Collisions and otherwise
// ignored.
//
// Example usage:
//
//	idx := countries.BuildIndex([]countries.Definition{
//	    {CanonicalName: "Türkiye", ISOCode: "TR", Aliases: []string{"Turkey"}},
//	})
//	c, ok := idx.Canonicalize("  TURKEY ") // {Türkiye TR}, true
package countries

import "strings"

// Definition describes one canonical country and the spellings that resolve to it.
type Definition struct {
	CanonicalName string   `json:"canonical_name" yaml:"canonical_name"`
	ISOCode       string   `json:"iso_code" yaml:"iso_code"`
	Aliases       []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// Canonical is the authoritative name and ISO code a raw country string resolves to.
type Canonical struct {
	Name    string `json:"name" yaml:"name"`
	ISOCode string `json:"iso_code" yaml:"iso_code"`
}

// IsZero reports whether c is the zero value.
func (c Canonical) IsZero() bool {
	return c.Name == "" && c.ISOCode == ""
}

// canonical returns the trimmed canonical value of d. ISO codes are upper-cased.
func (d Definition) canonical() Canonical {
	return Canonical{
		Name:    strings.TrimSpace(d.CanonicalName),
		ISOCode: strings.ToUpper(strings.TrimSpace(d.ISOCode)),
	}
}

// names returns the canonical name followed by every alias, in declaration order.
func (d Definition) names() []string {
	out := make([]string, 0, len(d.Aliases)+1)
	out = append(out, d.CanonicalName)
	return append(out, d.Aliases...)
}
