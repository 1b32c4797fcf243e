// Package reconcile canonicalizes and de-duplicates event collections.
//
// A pass normalizes every record against a country index, groups records by
// duplicate key (country, year, title), keeps the best-ranked member of each
// group and folds the others into it. The pass never fails and is
// idempotent: reconciling a reconciled collection changes nothing.
//
// Example usage:
//
//	r, _ := reconcile.New()
//	result := r.Reconcile(ctx, collection, countries.MustDefaults())
//	fmt.Println(result.Summary())
package reconcile

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/eventmap/pkg/countries"
	"github.com/agentstation/eventmap/pkg/events"
	"github.com/agentstation/eventmap/pkg/logging"
)

// Reconciler runs reconciliation passes. It owns the country index cache,
// so the index is rebuilt only when the definitions change between passes.
//
// A Reconciler may be shared, but a collection must not be reconciled by
// two goroutines at once.
type Reconciler struct {
	gapPrefix        string
	cache            *countries.Cache
	logger           *zerolog.Logger
	ensureCategories bool
	onMerged         []MergedFunc
	onUnresolved     []UnresolvedFunc
}

// New creates a Reconciler with options.
func New(opts ...Option) (*Reconciler, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	if o.cache == nil {
		o.cache = countries.NewCache()
	}
	return &Reconciler{
		gapPrefix:        o.gapPrefix,
		cache:            o.cache,
		logger:           o.logger,
		ensureCategories: o.ensureCategories,
		onMerged:         o.onMerged,
		onUnresolved:     o.onUnresolved,
	}, nil
}

// GapPrefix returns the id prefix that marks gap records.
func (r *Reconciler) GapPrefix() string {
	return r.gapPrefix
}

// Index returns the cached index for definitions.
func (r *Reconciler) Index(definitions []countries.Definition) *countries.Index {
	return r.cache.Index(definitions)
}

// Rank returns the rank of record under this reconciler's gap prefix.
func (r *Reconciler) Rank(record *events.Record) Rank {
	return RankOf(record, r.gapPrefix)
}

// group tracks the members of one duplicate key in arrival order.
type group struct {
	key     string
	members []string
}

// Reconcile normalizes and de-duplicates collection in place and returns
// what it did. The events slice is replaced with a fresh one holding the
// survivors in order of first occurrence of their duplicate key.
func (r *Reconciler) Reconcile(ctx context.Context, collection *events.Collection, definitions []countries.Definition) *Result {
	result := newResult(uuid.NewString())
	result.Collection = collection

	if r.logger != nil {
		ctx = logging.WithLogger(ctx, r.logger)
	}
	ctx = logging.WithPassID(ctx, result.Metadata.PassID)
	logger := logging.FromContext(ctx)

	if collection == nil {
		result.finalize()
		return result
	}

	builds := r.cache.Builds()
	idx := r.cache.Index(definitions)
	result.Collisions = idx.Collisions()
	if r.cache.Builds() != builds {
		for _, c := range result.Collisions {
			logger.Warn().
				Str("alias", c.Alias).
				Str("winner", c.Winner.Name).
				Str("loser", c.Loser.Name).
				Msg("Alias claimed by more than one country, keeping the first")
		}
	}

	stats := &result.Statistics
	stats.EventsIn = len(collection.Events)

	// Normalize.
	records := make([]*events.Record, 0, len(collection.Events))
	unresolved := make(map[string]int)
	for _, rec := range collection.Events {
		if rec == nil {
			continue
		}
		ch := NormalizeRecord(rec, idx)
		stats.add(ch)
		if ch.Unresolved {
			unresolved[rec.CountryName]++
			for _, fn := range r.onUnresolved {
				fn(rec)
			}
		}
		records = append(records, rec)
	}

	// Group by duplicate key, rank and merge.
	out := make([]*events.Record, 0, len(records))
	position := make(map[string]int, len(records))
	groups := make(map[string]*group)
	var order []*group

	for _, rec := range records {
		key := rec.DuplicateKey()
		i, seen := position[key]
		if !seen {
			position[key] = len(out)
			out = append(out, rec)
			continue
		}

		g, ok := groups[key]
		if !ok {
			g = &group{key: key, members: []string{out[i].ID}}
			groups[key] = g
			order = append(order, g)
		}
		g.members = append(g.members, rec.ID)

		primary, secondary := out[i], rec
		if IsBetter(r.Rank(rec), r.Rank(out[i])) {
			primary, secondary = rec, out[i]
			out[i] = rec
		}
		if MergeFields(primary, secondary) {
			stats.MergeOperations++
		}
		stats.DuplicatesRemoved++
		for _, fn := range r.onMerged {
			fn(primary, secondary)
		}
	}
	collection.Events = out
	stats.EventsOut = len(out)

	for _, g := range order {
		survivor := out[position[g.key]].ID
		merged := make([]string, 0, len(g.members)-1)
		skipped := false
		for _, id := range g.members {
			if id == survivor && !skipped {
				skipped = true
				continue
			}
			merged = append(merged, id)
		}
		result.Merged = append(result.Merged, MergedGroup{Key: g.key, SurvivorID: survivor, MergedIDs: merged})
		logger.Debug().
			Str("key", g.key).
			Str("survivor_id", survivor).
			Strs("merged_ids", merged).
			Msg("Merged duplicate events")
	}

	if r.ensureCategories {
		result.CategoriesAdded = events.EnsureCategories(collection)
		stats.CategoriesAdded = len(result.CategoriesAdded)
	}

	result.Unresolved = sortUnresolved(unresolved)
	result.finalize()

	if result.Changed() {
		logger.Info().
			Int("countries_renamed", stats.CountriesRenamed).
			Int("codes_filled", stats.CodesFilled).
			Int("codes_standardized", stats.CodesStandardized).
			Int("decades_updated", stats.DecadesUpdated).
			Int("duplicates_removed", stats.DuplicatesRemoved).
			Int("merge_operations", stats.MergeOperations).
			Int("categories_added", stats.CategoriesAdded).
			Msg("Normalization applied")
	}

	return result
}
