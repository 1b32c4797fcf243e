// Package normalize turns free-text names and titles into comparison keys.
//
// Keys are insensitive to case, diacritics, typographic apostrophes and
// whitespace runs. They are used only for lookups and grouping and are never
// meant to be displayed.
//
// Example usage:
//
//	normalize.Key("  Côte d’Ivoire ") // "cote d'ivoire"
//	normalize.Key("TÜRKİYE")          // "turkiye"
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// apostrophes maps typographic apostrophe and single-quote variants to ASCII.
var apostrophes = strings.NewReplacer(
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
	"‚", "'", // single low-9 quotation mark
	"‛", "'", // single high-reversed-9 quotation mark
	"ʼ", "'", // modifier letter apostrophe
	"′", "'", // prime
	"＇", "'", // fullwidth apostrophe
)

// dotless maps the Turkish dotless i, which case folding keeps distinct.
var dotless = strings.NewReplacer("ı", "i")

// Key returns the lookup key for value. It never fails; an empty or
// whitespace-only value yields "".
func Key(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}
	s = apostrophes.Replace(s)
	s = collapseSpace(s)
	s = stripMarks(s)
	s = lower(s)
	return dotless.Replace(s)
}

// Equal reports whether a and b produce the same non-empty key.
func Equal(a, b string) bool {
	ka := Key(a)
	return ka != "" && ka == Key(b)
}

// collapseSpace replaces every run of whitespace with a single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripMarks applies compatibility decomposition and drops combining marks,
// so an accented Latin letter reduces to its base letter.
//
// Transformers and casers carry internal buffers, so a fresh chain is built
// per call to keep Key safe for concurrent use.
func stripMarks(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Fold strips diacritics and the dotless i from s but keeps its case and
// spacing. It suits patterns whose syntax must survive, such as regexes
// matched case-insensitively against keys.
func Fold(s string) string {
	return dotless.Replace(stripMarks(apostrophes.Replace(s)))
}
