package reconcile

import (
	"context"
	"strings"

	"github.com/agentstation/eventmap/pkg/constants"
	"github.com/agentstation/eventmap/pkg/events"
	"github.com/agentstation/eventmap/pkg/logging"
	"github.com/agentstation/eventmap/pkg/normalize"
)

// MatchReason explains why two records were considered the same event.
type MatchReason string

// Reasons reported by FindProbableDuplicates.
const (
	ReasonSameURL      MatchReason = "same_url"
	ReasonSameTitle    MatchReason = "same_title"
	ReasonSimilarTitle MatchReason = "similar_title"
)

// ProbableGroup is a set of records in the same country and year that most
// likely describe one event under different titles.
type ProbableGroup struct {
	Country string        `json:"country" yaml:"country"`
	Year    string        `json:"year" yaml:"year"`
	IDs     []string      `json:"ids" yaml:"ids"`
	Titles  []string      `json:"titles" yaml:"titles"`
	Reasons []MatchReason `json:"reasons" yaml:"reasons"`

	members []int
}

// probableMatch decides whether a and b, already known to share country and
// year, are the same event. Only high-confidence matches count: a shared
// reference URL, identical normalized titles, near-identical titles in any
// category, or similar titles in the same category that also share their
// significant words.
func probableMatch(a, b *events.Record) (MatchReason, bool) {
	ua := strings.TrimSpace(a.WikipediaURL)
	ub := strings.TrimSpace(b.WikipediaURL)
	if ua != "" && ua == ub {
		return ReasonSameURL, true
	}

	ta := normalize.Title(a.Title)
	tb := normalize.Title(b.Title)
	if ta == "" || tb == "" {
		return "", false
	}
	if ta == tb {
		return ReasonSameTitle, true
	}

	ratio := normalize.Ratio(ta, tb)
	if ratio >= constants.NearIdenticalTitleRatio {
		return ReasonSimilarTitle, true
	}

	if strings.TrimSpace(a.Category) != strings.TrimSpace(b.Category) {
		return "", false
	}
	words := normalize.Jaccard(normalize.Tokens(ta), normalize.Tokens(tb))
	switch {
	case ratio >= constants.TitleSimilarityThreshold && words >= constants.TitleSimilarityThreshold:
		return ReasonSimilarTitle, true
	case words == 1 && ratio >= constants.SameWordsTitleRatio:
		return ReasonSimilarTitle, true
	}
	return "", false
}

// FindProbableDuplicates groups records that probably describe the same
// event but escaped exact de-duplication. Matching is transitive: if a
// matches b and b matches c, all three form one group. Groups are returned
// in order of their first member.
func FindProbableDuplicates(collection *events.Collection) []ProbableGroup {
	if collection == nil {
		return nil
	}
	recs := collection.Events

	buckets := make(map[string][]int)
	var bucketOrder []string
	for i, rec := range recs {
		if rec == nil {
			continue
		}
		key := strings.TrimSpace(rec.CountryName) + "||" + rec.Year.String()
		if _, ok := buckets[key]; !ok {
			bucketOrder = append(bucketOrder, key)
		}
		buckets[key] = append(buckets[key], i)
	}

	uf := newUnionFind(len(recs))
	reasons := make(map[int][]MatchReason)
	for _, key := range bucketOrder {
		idxs := buckets[key]
		for x := 0; x < len(idxs); x++ {
			for y := x + 1; y < len(idxs); y++ {
				a, b := idxs[x], idxs[y]
				if reason, ok := probableMatch(recs[a], recs[b]); ok {
					uf.union(a, b)
					reasons[a] = appendReason(reasons[a], reason)
				}
			}
		}
	}

	byRoot := make(map[int]*ProbableGroup)
	var groups []*ProbableGroup
	for i, rec := range recs {
		if rec == nil {
			continue
		}
		root := uf.find(i)
		g, ok := byRoot[root]
		if !ok {
			g = &ProbableGroup{Country: strings.TrimSpace(rec.CountryName), Year: rec.Year.String()}
			byRoot[root] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, i)
		g.IDs = append(g.IDs, rec.ID)
		g.Titles = append(g.Titles, rec.Title)
		for _, reason := range reasons[i] {
			g.Reasons = appendReason(g.Reasons, reason)
		}
	}

	out := make([]ProbableGroup, 0)
	for _, g := range groups {
		if len(g.members) > 1 {
			out = append(out, *g)
		}
	}
	return out
}

// MergeProbable folds every probable-duplicate group into its best-ranked
// member, using the same ranking and merge rules as a reconciliation pass.
// It returns the groups it merged.
func (r *Reconciler) MergeProbable(ctx context.Context, collection *events.Collection) []ProbableGroup {
	groups := FindProbableDuplicates(collection)
	if len(groups) == 0 {
		return groups
	}
	logger := r.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	drop := make(map[int]struct{})
	for _, g := range groups {
		best := g.members[0]
		for _, i := range g.members[1:] {
			if IsBetter(r.Rank(collection.Events[i]), r.Rank(collection.Events[best])) {
				best = i
			}
		}
		survivor := collection.Events[best]
		for _, i := range g.members {
			if i == best {
				continue
			}
			MergeFields(survivor, collection.Events[i])
			for _, fn := range r.onMerged {
				fn(survivor, collection.Events[i])
			}
			drop[i] = struct{}{}
		}
		logger.Debug().
			Str("survivor_id", survivor.ID).
			Strs("ids", g.IDs).
			Msg("Merged probable duplicate events")
	}

	out := make([]*events.Record, 0, len(collection.Events)-len(drop))
	for i, rec := range collection.Events {
		if _, ok := drop[i]; ok {
			continue
		}
		out = append(out, rec)
	}
	collection.Events = out
	return groups
}

func appendReason(list []MatchReason, reason MatchReason) []MatchReason {
	for _, r := range list {
		if r == reason {
			return list
		}
	}
	return append(list, reason)
}

type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}
