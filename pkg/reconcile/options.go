package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/eventmap/pkg/countries"
	"github.com/agentstation/eventmap/pkg/errors"
	"github.com/agentstation/eventmap/pkg/events"
)

// MergedFunc is called after absorbed has been folded into survivor.
type MergedFunc func(survivor, absorbed *events.Record)

// UnresolvedFunc is called for every record whose country name did not resolve.
type UnresolvedFunc func(record *events.Record)

type options struct {
	gapPrefix        string
	cache            *countries.Cache
	logger           *zerolog.Logger
	ensureCategories bool
	onMerged         []MergedFunc
	onUnresolved     []UnresolvedFunc
}

func defaultOptions() *options {
	return &options{
		gapPrefix:        events.DefaultGapPrefix,
		ensureCategories: true,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithGapPrefix sets the id prefix that marks gap records.
func WithGapPrefix(prefix string) Option {
	return func(o *options) error {
		if prefix == "" {
			return &errors.ValidationError{
				Field:   "gap_prefix",
				Message: "cannot be empty",
			}
		}
		o.gapPrefix = prefix
		return nil
	}
}

// WithCache shares an index cache between reconcilers.
func WithCache(cache *countries.Cache) Option {
	return func(o *options) error {
		if cache == nil {
			return &errors.ValidationError{
				Field:   "cache",
				Message: "cannot be nil",
			}
		}
		o.cache = cache
		return nil
	}
}

// WithLogger sets the logger. Without it the logger is taken from the
// context passed to Reconcile.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithCategoryDefaults controls whether categories used by events but not
// defined in the collection are created. Enabled by default.
func WithCategoryDefaults(enabled bool) Option {
	return func(o *options) error {
		o.ensureCategories = enabled
		return nil
	}
}

// WithOnMerged registers a callback run for every folded duplicate.
func WithOnMerged(fn MergedFunc) Option {
	return func(o *options) error {
		if fn != nil {
			o.onMerged = append(o.onMerged, fn)
		}
		return nil
	}
}

// WithOnUnresolved registers a callback run for every unresolved country name.
func WithOnUnresolved(fn UnresolvedFunc) Option {
	return func(o *options) error {
		if fn != nil {
			o.onUnresolved = append(o.onUnresolved, fn)
		}
		return nil
	}
}
