package eventmap

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/eventmap/pkg/constants"
	"github.com/agentstation/eventmap/pkg/countries"
	"github.com/agentstation/eventmap/pkg/errors"
	"github.com/agentstation/eventmap/pkg/events"
)

// options holds the configuration of a Client.
type options struct {
	definitions     []countries.Definition
	definitionsPath string
	eventsPath      string
	gapPrefix       string
	backups         bool
	seedCategories  bool
	logger          *zerolog.Logger
}

// defaults returns the default client options.
func defaults() *options {
	return &options{
		eventsPath: constants.DefaultEventsPath,
		gapPrefix:  events.DefaultGapPrefix,
		backups:    true,
	}
}

// apply applies the given options in order and stops at the first error.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Option is a function that configures a Client.
type Option func(*options) error

// WithDefinitions sets the country definitions directly. It takes
// precedence over WithDefinitionsFile.
func WithDefinitions(defs []countries.Definition) Option {
	return func(o *options) error {
		o.definitions = defs
		return nil
	}
}

// WithDefinitionsFile loads country definitions from a YAML or JSON file.
// Without it, and without WithDefinitions, the embedded defaults are used.
func WithDefinitionsFile(path string) Option {
	return func(o *options) error {
		o.definitionsPath = path
		return nil
	}
}

// WithEventsPath sets the collection file used by Load and Save.
func WithEventsPath(path string) Option {
	return func(o *options) error {
		if path == "" {
			return &errors.ValidationError{
				Field:   "events_path",
				Message: "cannot be empty",
			}
		}
		o.eventsPath = path
		return nil
	}
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

// WithBackups controls whether Save keeps a timestamped copy of the file
// it replaces. Enabled by default.
func WithBackups(enabled bool) Option {
	return func(o *options) error {
		o.backups = enabled
		return nil
	}
}

// WithSeedCategories makes every pass add the built-in categories and fill
// missing attributes of existing ones.
func WithSeedCategories(enabled bool) Option {
	return func(o *options) error {
		o.seedCategories = enabled
		return nil
	}
}

// WithLogger sets the logger. Without it the logger is taken from the
// context of each call.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
