package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/eventmap"
)

// Mock is an Application for command tests. Zero fields fall back to a
// client over the embedded definitions, a no-op logger and table output.
type Mock struct {
	EventmapFunc func(opts ...eventmap.Option) (eventmap.Client, error)
	Log          *zerolog.Logger
	Format       string

	VersionString, CommitHash, BuildDate, Builder string
}

var _ Application = (*Mock)(nil)

func (m *Mock) Eventmap(opts ...eventmap.Option) (eventmap.Client, error) {
	if m.EventmapFunc != nil {
		return m.EventmapFunc(opts...)
	}
	return eventmap.New(append([]eventmap.Option{eventmap.WithLogger(m.Logger())}, opts...)...)
}

func (m *Mock) Logger() *zerolog.Logger {
	if m.Log != nil {
		return m.Log
	}
	l := zerolog.Nop()
	return &l
}

func (m *Mock) OutputFormat() string {
	if m.Format == "" {
		return "table"
	}
	return m.Format
}

func (m *Mock) Version() string { return or(m.VersionString, "dev") }
func (m *Mock) Commit() string  { return or(m.CommitHash, "unknown") }
func (m *Mock) Date() string    { return or(m.BuildDate, "unknown") }
func (m *Mock) BuiltBy() string { return or(m.Builder, "test") }

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
