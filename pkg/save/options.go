// Package save holds the options for writing an event collection.
package save

import (
	"io"
	"path/filepath"
	"strings"
)

// Format is the encoding a collection is written in.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) IsValid() bool { return f == FormatJSON || f == FormatYAML }

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// ParseFormat returns the format named by s, with or without a leading dot,
// so file extensions parse too. Empty means JSON; anything else unknown is
// invalid.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "json", "":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	}
	return Format(-1)
}

// FormatOf picks the format for a file from its extension. Unrecognized
// extensions are JSON.
func FormatOf(path string) Format {
	if f := ParseFormat(filepath.Ext(path)); f.IsValid() {
		return f
	}
	return FormatJSON
}

// Options collects the Option values passed to Save.
type Options struct {
	path      string
	writer    io.Writer
	format    Format
	formatSet bool
	backup    bool
}

// Defaults: JSON, with backups.
func Defaults() *Options {
	return &Options{format: FormatJSON, backup: true}
}

// Apply runs opts against s and returns a copy of the result.
func (s *Options) Apply(opts ...Option) Options {
	for _, opt := range opts {
		opt(s)
	}
	return *s
}

func (s *Options) Path() string      { return s.path }
func (s *Options) Writer() io.Writer { return s.writer }
func (s *Options) Backup() bool      { return s.backup }

// Format is the format set by WithFormat, else the one implied by the
// path's extension.
func (s *Options) Format() Format {
	if s.formatSet || s.path == "" {
		return s.format
	}
	return FormatOf(s.path)
}

// Option configures a save.
type Option func(*Options)

// WithFormat forces the output format.
func WithFormat(f Format) Option {
	return func(s *Options) {
		s.format = f
		s.formatSet = true
	}
}

// WithPath saves to a file.
func WithPath(path string) Option {
	return func(s *Options) { s.path = path }
}

// WithWriter saves to w. A writer takes precedence over a path.
func WithWriter(w io.Writer) Option {
	return func(s *Options) { s.writer = w }
}

// WithBackup toggles the timestamped copy of the file being replaced.
func WithBackup(enabled bool) Option {
	return func(s *Options) { s.backup = enabled }
}
