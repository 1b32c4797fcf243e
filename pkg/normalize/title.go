package normalize

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/agentstation/eventmap/pkg/constants"
)

// stopwords are dropped from title token sets. Entries are already in Key form.
var stopwords = map[string]struct{}{
	// Turkish
	"ve": {}, "ile": {}, "da": {}, "de": {}, "bir": {}, "bu": {}, "su": {},
	"icin": {}, "donemi": {}, "krizi": {}, "olayi": {}, "hareketi": {},
	"hukumeti": {}, "yasasi": {}, "anlasmasi": {}, "savas": {}, "savasi": {},
	"catisma": {},
	// English
	"the": {}, "a": {}, "an": {}, "of": {}, "and": {}, "in": {}, "on": {},
	"to": {}, "for": {},
}

// Title returns a punctuation-free comparison form of an event title.
// Quotes are removed, any other character outside [a-z0-9 -:] becomes a space.
func Title(title string) string {
	k := Key(title)
	if k == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(k))
	for _, r := range k {
		switch {
		case r == '\'' || r == '"' || r == '`':
			continue
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == ':':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return collapseSpace(b.String())
}

// Tokens returns the significant words of a title: stopwords and words of
// two characters or fewer are dropped.
func Tokens(title string) map[string]struct{} {
	out := make(map[string]struct{})
	parts := strings.FieldsFunc(Title(title), func(r rune) bool {
		return r == ' ' || r == '-' || r == ':'
	})
	for _, p := range parts {
		if len(p) < constants.MinTokenLength {
			continue
		}
		if _, stop := stopwords[p]; stop {
			continue
		}
		out[p] = struct{}{}
	}
	return out
}

// Jaccard returns |a∩b| / |a∪b|, or 0 when either set is empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// Ratio returns the character similarity of the normalized titles a and b
// as 2*M/T, where M counts the characters in matching blocks and T is the
// combined length. It is 0 when either title normalizes to nothing.
func Ratio(a, b string) float64 {
	na, nb := Title(a), Title(b)
	if na == "" || nb == "" {
		return 0
	}
	return difflib.NewMatcher(splitRunes(na), splitRunes(nb)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
