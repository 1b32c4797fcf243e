// Package eventmap keeps a collection of historical events consistent: it
// resolves free-text country names to one canonical spelling, recomputes
// derived fields and folds records describing the same event into the most
// complete one.
//
// The engine lives in pkg/countries (country index), pkg/reconcile (the
// reconciliation pass) and pkg/events (the record model). This package ties
// them to a set of country definitions and a collection file, and adds
// hooks, gap-filler import and filtering.
//
// Example usage:
//
//	// Create a client with the embedded country definitions
//	em, err := eventmap.New(eventmap.WithEventsPath("data/events.json"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Register event hooks
//	em.OnRecordMerged(func(survivor, absorbed *events.Record) {
//	    log.Printf("merged %s into %s", absorbed.ID, survivor.ID)
//	})
//
//	// Load, reconcile and save
//	collection, err := em.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result := em.Reconcile(ctx, collection)
//	fmt.Println(result.Summary())
//	if err := em.Save(collection); err != nil {
//	    log.Fatal(err)
//	}
package eventmap

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/eventmap/pkg/countries"
	"github.com/agentstation/eventmap/pkg/errors"
	"github.com/agentstation/eventmap/pkg/events"
	"github.com/agentstation/eventmap/pkg/logging"
	"github.com/agentstation/eventmap/pkg/reconcile"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Engine exposes canonicalization, ranking and reconciliation over the
// client's country definitions.
type Engine interface {
	// Definitions returns a copy of the country definitions in use
	Definitions() []countries.Definition

	// Index returns the country index built from the definitions
	Index() *countries.Index

	// Canonicalize resolves a raw country name
	Canonicalize(raw string) (countries.Canonical, bool)

	// Rank returns the completeness rank of a record
	Rank(record *events.Record) reconcile.Rank

	// Reconcile normalizes and de-duplicates a collection in place
	Reconcile(ctx context.Context, collection *events.Collection) *reconcile.Result

	// Check reports consistency issues without modifying the collection
	Check(collection *events.Collection) *reconcile.Report

	// FindProbableDuplicates reports records that probably describe the same event
	FindProbableDuplicates(collection *events.Collection) []reconcile.ProbableGroup

	// MergeProbable folds probable duplicates into their best-ranked member
	MergeProbable(ctx context.Context, collection *events.Collection) []reconcile.ProbableGroup
}

// Client manages country definitions and an event collection file.
type Client interface {

	// Engine provides the reconciliation operations
	Engine

	// Persistence handles collection load and save operations
	Persistence

	// Importer handles gap-filler imports
	Importer

	// Hooks provides access to event callback registration
	Hooks
}

// client is the internal implementation of the Client interface.
type client struct {

	// options are the configured options for the client
	options *options

	// definitions are read-only after New
	mu          sync.RWMutex
	definitions []countries.Definition

	// reconciler owns the index cache
	reconciler *reconcile.Reconciler
	hooks      *hooks
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: o,
		hooks:   newHooks(),
	}

	switch {
	case o.definitions != nil:
		c.definitions = o.definitions
	case o.definitionsPath != "":
		if c.definitions, err = countries.LoadDefinitions(o.definitionsPath); err != nil {
			return nil, errors.WrapResource("load", "country definitions", o.definitionsPath, err)
		}
	default:
		if c.definitions, err = countries.Defaults(); err != nil {
			return nil, errors.WrapResource("load", "country definitions", "embedded", err)
		}
	}

	ropts := []reconcile.Option{
		reconcile.WithGapPrefix(o.gapPrefix),
		reconcile.WithOnMerged(c.hooks.triggerRecordMerged),
		reconcile.WithOnUnresolved(c.hooks.triggerCountryUnresolved),
	}
	if o.logger != nil {
		ropts = append(ropts, reconcile.WithLogger(o.logger))
	}
	if c.reconciler, err = reconcile.New(ropts...); err != nil {
		return nil, errors.WrapResource("create", "reconciler", "", err)
	}

	c.logger(context.Background()).Debug().
		Int("definitions", len(c.definitions)).
		Str("events_path", o.eventsPath).
		Msg("Client created")

	return c, nil
}

// logger returns the configured logger, or the one carried by ctx.
func (c *client) logger(ctx context.Context) *zerolog.Logger {
	if c.options.logger != nil {
		return c.options.logger
	}
	return logging.FromContext(ctx)
}

// Definitions returns a copy of the country definitions in use.
func (c *client) Definitions() []countries.Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]countries.Definition, len(c.definitions))
	for i, d := range c.definitions {
		d.Aliases = append([]string(nil), d.Aliases...)
		out[i] = d
	}
	return out
}

// Index returns the cached country index.
func (c *client) Index() *countries.Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reconciler.Index(c.definitions)
}

// Canonicalize resolves raw to its canonical country, following the same
// resolution a reconciliation pass applies.
func (c *client) Canonicalize(raw string) (countries.Canonical, bool) {
	return c.Index().Resolve(raw)
}

// Rank returns the completeness rank of record.
func (c *client) Rank(record *events.Record) reconcile.Rank {
	return c.reconciler.Rank(record)
}

// Reconcile runs one reconciliation pass over collection.
func (c *client) Reconcile(ctx context.Context, collection *events.Collection) *reconcile.Result {
	if c.options.seedCategories && collection != nil {
		if n := events.SeedCategories(collection); n > 0 {
			c.logger(ctx).Debug().Int("categories", n).Msg("Seeded default categories")
		}
	}

	c.mu.RLock()
	defs := c.definitions
	c.mu.RUnlock()
	return c.reconciler.Reconcile(ctx, collection, defs)
}

// Check reports consistency issues in collection.
func (c *client) Check(collection *events.Collection) *reconcile.Report {
	return reconcile.Check(collection, c.Index())
}

// FindProbableDuplicates reports probable duplicates in collection.
func (c *client) FindProbableDuplicates(collection *events.Collection) []reconcile.ProbableGroup {
	return reconcile.FindProbableDuplicates(collection)
}

// MergeProbable folds probable duplicates in collection.
func (c *client) MergeProbable(ctx context.Context, collection *events.Collection) []reconcile.ProbableGroup {
	return c.reconciler.MergeProbable(ctx, collection)
}
