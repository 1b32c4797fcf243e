// Package app provides the application context and dependency management
// for the eventmap CLI: configuration, logging and the lazily created
// eventmap client.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/eventmap"
	"github.com/agentstation/eventmap/cmd/application"
	"github.com/agentstation/eventmap/internal/cmd/output"
	"github.com/agentstation/eventmap/pkg/errors"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// App represents the eventmap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Eventmap client (lazy-initialized, singleton)
	mu       sync.RWMutex
	eventmap eventmap.Client
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration from the environment that can
// be customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format, detecting it from the
// terminal when none was given.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Format))
}

// Eventmap returns the eventmap client. Without options the instance is
// created once and cached; with options a new instance is returned.
func (a *App) Eventmap(opts ...eventmap.Option) (eventmap.Client, error) {
	if len(opts) > 0 {
		em, err := eventmap.New(append(a.clientOptions(), opts...)...)
		if err != nil {
			return nil, errors.WrapResource("create", "eventmap", "with custom options", err)
		}
		return em, nil
	}

	a.mu.RLock()
	if a.eventmap != nil {
		em := a.eventmap
		a.mu.RUnlock()
		return em, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.eventmap != nil {
		return a.eventmap, nil
	}

	em, err := eventmap.New(a.clientOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "eventmap", "", err)
	}
	a.eventmap = em
	return em, nil
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.eventmap = nil
	return nil
}

// clientOptions builds eventmap options from the app configuration.
func (a *App) clientOptions() []eventmap.Option {
	opts := []eventmap.Option{
		eventmap.WithLogger(a.logger),
		eventmap.WithBackups(a.config.Backup),
		eventmap.WithSeedCategories(a.config.SeedCategories),
	}
	if a.config.EventsPath != "" {
		opts = append(opts, eventmap.WithEventsPath(a.config.EventsPath))
	}
	if a.config.CountriesPath != "" {
		opts = append(opts, eventmap.WithDefinitionsFile(a.config.CountriesPath))
	}
	if a.config.GapPrefix != "" {
		opts = append(opts, eventmap.WithGapPrefix(a.config.GapPrefix))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithEventmap sets a custom eventmap instance (useful for testing).
func WithEventmap(em eventmap.Client) Option {
	return func(a *App) error {
		a.eventmap = em
		return nil
	}
}
