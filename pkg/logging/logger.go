// Package logging holds the zerolog setup shared by the eventmap library and
// CLI. Library code never writes to stdout: reconciliation passes, imports and
// saves log to the logger carried in the context, or to the package default.
//
//	logging.Configure(&logging.Config{Level: "debug", Format: "console"})
//	ctx := logging.WithOperation(context.Background(), "import")
//	logging.FromContext(ctx).Info().Int("rows", 12).Msg("Gap rows imported")
package logging

import (
	"os"
	"time"

	goisatty "github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger = NewLoggerFromConfig(envConfig())

// envConfig reads the EVENTMAP_LOG_* variables, falling back to the
// unprefixed LOG_* ones.
func envConfig() *Config {
	cfg := DefaultConfig()
	if v := lookupEnv("LOG_LEVEL"); v != "" {
		cfg.Level = v
	} else if os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	if v := lookupEnv("LOG_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := lookupEnv("LOG_OUTPUT"); v != "" {
		cfg.Output = v
	}
	return cfg
}

func lookupEnv(name string) string {
	if v := os.Getenv("EVENTMAP_" + name); v != "" {
		return v
	}
	return os.Getenv(name)
}

// Default returns the package-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the package-wide logger and zerolog's global one.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func isatty() bool {
	fd := os.Stderr.Fd()
	return goisatty.IsTerminal(fd) || goisatty.IsCygwinTerminal(fd)
}

var timeFormats = map[string]string{
	"kitchen":     time.Kitchen,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"stamp":       time.Stamp,
	"datetime":    time.DateTime,
	"unix":        "",
}
