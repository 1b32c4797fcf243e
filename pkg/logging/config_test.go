package logging

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keepGlobals restores the default logger and global level after t.
func keepGlobals(t *testing.T) {
	t.Helper()
	logger, level := defaultLogger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		SetDefault(logger)
		zerolog.SetGlobalLevel(level)
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"DEBUG":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"warn":     zerolog.WarnLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"off":      zerolog.Disabled,
		"disabled": zerolog.Disabled,
		"":         zerolog.InfoLevel,
		"loud":     zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestTimeFormat(t *testing.T) {
	assert.Equal(t, time.Kitchen, timeFormat("kitchen"))
	assert.Equal(t, time.RFC3339, timeFormat("RFC3339"))
	assert.Equal(t, "", timeFormat("unix"))
	assert.Equal(t, "2006-01-02", timeFormat("2006-01-02"))
	assert.Equal(t, time.Kitchen, timeFormat("whenever"))
}

func TestNewWriter(t *testing.T) {
	assert.Equal(t, io.Discard, newWriter(&Config{Output: "discard", Format: "json"}))
	assert.Equal(t, io.Discard, newWriter(&Config{Output: "none", Format: "auto"}), "auto is json off a terminal")

	w := newWriter(&Config{Output: "stdout", Format: "console", TimeFormat: "rfc3339", NoColor: true})
	console, ok := w.(zerolog.ConsoleWriter)
	require.True(t, ok)
	assert.Equal(t, os.Stdout, console.Out)
	assert.Equal(t, time.RFC3339, console.TimeFormat)
	assert.True(t, console.NoColor)
}

func TestNewLoggerFromConfig(t *testing.T) {
	keepGlobals(t)

	path := filepath.Join(t.TempDir(), "eventmap.log")
	logger := NewLoggerFromConfig(&Config{Level: "warn", Format: "json", Output: path})
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	logger.Info().Msg("dropped")
	logger.Warn().Str("alias", "kongo").Msg("Alias claimed by more than one country")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"alias":"kongo"`)
	assert.NotContains(t, string(data), "dropped")
	assert.NotContains(t, string(data), `"caller"`)

	logger = NewLoggerFromConfig(&Config{Level: "debug", Format: "json", Output: path})
	logger.Debug().Msg("with caller")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"caller"`)
}

func TestNewLoggerFromNilConfig(t *testing.T) {
	keepGlobals(t)
	t.Setenv("NO_COLOR", "1")

	logger := NewLoggerFromConfig(nil)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestConfigure(t *testing.T) {
	keepGlobals(t)

	Configure(&Config{Level: "error", Output: "discard"})
	assert.Equal(t, zerolog.ErrorLevel, Default().GetLevel())
}

func TestEnvConfig(t *testing.T) {
	t.Setenv("EVENTMAP_LOG_LEVEL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "")
	t.Setenv("EVENTMAP_LOG_FORMAT", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("EVENTMAP_LOG_OUTPUT", "")
	t.Setenv("LOG_OUTPUT", "")

	cfg := envConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)

	t.Setenv("DEBUG", "1")
	assert.Equal(t, "debug", envConfig().Level)

	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_OUTPUT", "stdout")
	cfg = envConfig()
	assert.Equal(t, "error", cfg.Level)
	assert.Equal(t, "stdout", cfg.Output)

	t.Setenv("EVENTMAP_LOG_LEVEL", "trace")
	t.Setenv("EVENTMAP_LOG_FORMAT", "console")
	cfg = envConfig()
	assert.Equal(t, "trace", cfg.Level, "prefixed variable wins")
	assert.Equal(t, "console", cfg.Format)
}
