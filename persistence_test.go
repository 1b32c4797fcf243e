package eventmap

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/eventmap/pkg/constants"
	"github.com/agentstation/eventmap/pkg/errors"
	"github.com/agentstation/eventmap/pkg/events"
	"github.com/agentstation/eventmap/pkg/logging"
	"github.com/agentstation/eventmap/pkg/save"
)

func sampleCollection() *events.Collection {
	c := events.NewCollection()
	c.Categories["savas"] = events.Category{Label: "Savaş", Icon: "⚔️", Color: "#c0392b", Tier: 1}
	c.Events = append(c.Events, &events.Record{
		ID:          "ev_1",
		CountryName: "Türkiye",
		CountryCode: "TR",
		Year:        events.NewYear(1915),
		Decade:      "1910s",
		Category:    "savas",
		Title:       "Çanakkale <Gelibolu>",
		KeyFigures:  []string{},
	})
	return c
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "events.json")
	c := newTestClient(t, WithEventsPath(path))

	require.NoError(t, c.Save(sampleCollection()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Çanakkale <Gelibolu>")
	assert.Contains(t, string(data), "\n  \"events\"")

	loaded, err := c.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Events, 1)
	assert.Equal(t, "Çanakkale <Gelibolu>", loaded.Events[0].Title)
	assert.Equal(t, 1915, loaded.Events[0].Year.Value)
	assert.Equal(t, 1, loaded.Categories["savas"].Tier)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-", "temporary file left behind")
	}
}

func TestSaveWritesBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.json")
	c := newTestClient(t, WithEventsPath(path))

	require.NoError(t, c.Save(sampleCollection()))
	backups, _ := filepath.Glob(path + constants.BackupSuffix + "*")
	assert.Empty(t, backups, "first save has nothing to back up")

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	updated := sampleCollection()
	updated.Events[0].Title = "Gelibolu"
	require.NoError(t, c.Save(updated))

	backups, _ = filepath.Glob(path + constants.BackupSuffix + "*")
	require.Len(t, backups, 1)
	saved, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, first, saved)
}

func TestSaveWithoutBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	c := newTestClient(t, WithEventsPath(path), WithBackups(false))

	require.NoError(t, c.Save(sampleCollection()))
	require.NoError(t, c.Save(sampleCollection()))

	backups, _ := filepath.Glob(path + constants.BackupSuffix + "*")
	assert.Empty(t, backups)

	other := filepath.Join(t.TempDir(), "other.json")
	require.NoError(t, c.Save(sampleCollection(), save.WithPath(other)))
	require.NoError(t, c.Save(sampleCollection(), save.WithPath(other), save.WithBackup(true)))
	backups, _ = filepath.Glob(other + constants.BackupSuffix + "*")
	assert.Len(t, backups, 1)
}

func TestSaveToWriter(t *testing.T) {
	c := newTestClient(t)

	var buf bytes.Buffer
	require.NoError(t, c.Save(sampleCollection(), save.WithWriter(&buf), save.WithFormat(save.FormatYAML)))
	out := buf.String()
	assert.Contains(t, out, "events:")
	assert.Contains(t, out, "country_name:")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"))

	err := c.Save(sampleCollection(), save.WithWriter(&buf), save.WithFormat(save.Format(9)))
	assert.True(t, errors.IsValidationError(err))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	c := newTestClient(t, WithEventsPath(filepath.Join(dir, "missing.json")))

	_, err := c.Load()
	assert.True(t, errors.IsNotFound(err))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"events": [`), 0o644))
	_, err = c.LoadFrom(bad)
	var pe *errors.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, bad, pe.File)
}

func TestReadCollection(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		events int
	}{
		{"empty", "", 0},
		{"whitespace", "  \n", 0},
		{"object", `{"categories": {}, "events": [{"id": "a"}]}`, 1},
		{"bare array", `[{"id": "a"}, {"id": "b"}]`, 2},
		{"no events key", `{"categories": {"savas": {"label": "Savaş"}}}`, 0},
		{"yaml mapping", "events:\n  - id: a\n    year: 1923\n", 1},
		{"yaml list", "- id: a\n- id: b\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ReadCollection(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.NotNil(t, c.Categories)
			assert.NotNil(t, c.Events)
			assert.Len(t, c.Events, tt.events)
		})
	}
}

func TestWriteCollectionKeepsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCollection(&buf, sampleCollection(), save.FormatJSON))

	out := buf.String()
	assert.Contains(t, out, "<Gelibolu>")
	assert.NotContains(t, out, `\u003c`)
	assert.Contains(t, out, "⚔️")

	back, err := ReadCollection(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleCollection().Events[0].Title, back.Events[0].Title)
}

func TestSaveLogsBackup(t *testing.T) {
	logger := logging.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "events.json")
	c, err := New(
		WithDefinitions(testDefinitions()),
		WithEventsPath(path),
		WithLogger(logger.Logger),
	)
	require.NoError(t, err)

	require.NoError(t, c.Save(sampleCollection()))
	require.NoError(t, c.Save(sampleCollection()))
	logger.AssertContains(t, "Backup written")
}

func TestReadCollectionRejectsYAMLScalar(t *testing.T) {
	_, err := ReadCollection(strings.NewReader("just some text"))
	var pe *errors.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "yaml", pe.Format)
}

func TestSaveYAMLPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.yaml")
	c := newTestClient(t, WithEventsPath(path))

	require.NoError(t, c.Save(sampleCollection()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "categories:"), string(data))

	loaded, err := c.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Events, 1)
	assert.Equal(t, "Çanakkale <Gelibolu>", loaded.Events[0].Title)
	assert.Equal(t, 1915, loaded.Events[0].Year.Value)
	assert.Equal(t, "⚔️", loaded.Categories["savas"].Icon)

	require.NoError(t, c.Save(loaded, save.WithFormat(save.FormatJSON), save.WithBackup(false)))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"))
}
