// Package application provides the application interface for eventmap commands.
//
// The Application interface is the contract between the application layer and
// the command implementations. Commands accept it instead of the concrete App
// so they can be tested with a mock.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            em, err := app.Eventmap()
//	            if err != nil {
//	                return err
//	            }
//	            collection, err := em.Load()
//	            // ... use collection
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    Format: "json",
//	    EventmapFunc: func(opts ...eventmap.Option) (eventmap.Client, error) {
//	        return eventmap.New(append(opts, eventmap.WithEventsPath(path))...)
//	    },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/eventmap"
)

// Application provides what commands need from the app.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Eventmap returns the eventmap client.
	// Without options it returns the default cached instance built from the
	// configuration. With options it creates a new instance whose options are
	// applied after the configured ones.
	Eventmap(opts ...eventmap.Option) (eventmap.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, wide, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
