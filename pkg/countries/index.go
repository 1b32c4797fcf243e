package countries

import (
	"strings"

	"github.com/agentstation/eventmap/pkg/normalize"
)

// Collision records a normalized alias claimed by more than one definition.
// Winner keeps the key; Loser is unreachable through it.
type Collision struct {
	Key    string    `json:"key" yaml:"key"`
	Alias  string    `json:"alias" yaml:"alias"`
	Winner Canonical `json:"winner" yaml:"winner"`
	Loser  Canonical `json:"loser" yaml:"loser"`
}

// Index is the reverse lookup from alias spellings to canonical countries.
// It is read-only after BuildIndex returns and safe for concurrent use.
type Index struct {
	byKey      map[string]Canonical
	byExact    map[string]Canonical
	canonicals []Canonical
	collisions []Collision
}

// BuildIndex compiles definitions into an Index.
//
// Each definition registers its exact trimmed canonical name and the
// normalized form of its canonical name and aliases. Definitions with an
// empty canonical name are skipped. For both maps the first definition to
// claim a key keeps it.
func BuildIndex(definitions []Definition) *Index {
	idx := &Index{
		byKey:   make(map[string]Canonical, len(definitions)*4),
		byExact: make(map[string]Canonical, len(definitions)),
	}

	// owner tracks which definition claimed each key, so aliases repeated
	// inside one definition are not reported as collisions.
	owner := make(map[string]int, len(definitions)*4)

	for i, def := range definitions {
		canon := def.canonical()
		if canon.Name == "" {
			continue
		}
		idx.canonicals = append(idx.canonicals, canon)

		if _, ok := idx.byExact[canon.Name]; !ok {
			idx.byExact[canon.Name] = canon
		}

		for _, alias := range def.names() {
			key := normalize.Key(alias)
			if key == "" {
				continue
			}
			prev, claimed := owner[key]
			if !claimed {
				owner[key] = i
				idx.byKey[key] = canon
				continue
			}
			if prev != i {
				idx.collisions = append(idx.collisions, Collision{
					Key:    key,
					Alias:  strings.TrimSpace(alias),
					Winner: idx.byKey[key],
					Loser:  canon,
				})
			}
		}
	}

	return idx
}

// Canonicalize resolves raw to its canonical country.
//
// The trimmed value is looked up by normalized key first and by exact
// canonical name second. It returns false when raw is blank or unknown; the
// caller keeps its own value in that case.
func (idx *Index) Canonicalize(raw string) (Canonical, bool) {
	if idx == nil {
		return Canonical{}, false
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return Canonical{}, false
	}
	if c, ok := idx.byKey[normalize.Key(s)]; ok {
		return c, true
	}
	if c, ok := idx.byExact[s]; ok {
		return c, true
	}
	return Canonical{}, false
}

// Resolve is Canonicalize followed until the result is stable. A canonical
// name whose normalized key was claimed by an earlier definition resolves to
// that definition, so a single lookup is not always a fixed point.
func (idx *Index) Resolve(raw string) (Canonical, bool) {
	c, ok := idx.Canonicalize(raw)
	if !ok {
		return c, false
	}
	for hops := 0; hops < len(idx.canonicals); hops++ {
		next, ok := idx.Canonicalize(c.Name)
		if !ok || next == c {
			break
		}
		c = next
	}
	return c, true
}

// IsCanonical reports whether name is exactly some definition's canonical name.
func (idx *Index) IsCanonical(name string) bool {
	if idx == nil {
		return false
	}
	_, ok := idx.byExact[name]
	return ok
}

// Lookup returns the canonical entry for an exact canonical name.
func (idx *Index) Lookup(name string) (Canonical, bool) {
	if idx == nil {
		return Canonical{}, false
	}
	c, ok := idx.byExact[name]
	return c, ok
}

// Canonicals returns every indexed canonical country in definition order.
func (idx *Index) Canonicals() []Canonical {
	if idx == nil {
		return nil
	}
	out := make([]Canonical, len(idx.canonicals))
	copy(out, idx.canonicals)
	return out
}

// Collisions returns the alias keys claimed by more than one definition.
func (idx *Index) Collisions() []Collision {
	if idx == nil {
		return nil
	}
	out := make([]Collision, len(idx.collisions))
	copy(out, idx.collisions)
	return out
}

// Len returns the number of distinct normalized keys in the index.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.byKey)
}
