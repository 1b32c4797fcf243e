package countries

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/eventmap"
	"github.com/agentstation/eventmap/cmd/application"
	"github.com/agentstation/eventmap/pkg/countries"
	"github.com/agentstation/eventmap/pkg/errors"
	"github.com/agentstation/eventmap/pkg/logging"
)

var testDefinitions = []countries.Definition{
	{CanonicalName: "Türkiye", ISOCode: "TR", Aliases: []string{"Turkey"}},
	{CanonicalName: "Güney Kore", ISOCode: "KR", Aliases: []string{"South Korea"}},
	{CanonicalName: "Kuzey Kore", ISOCode: "KP", Aliases: []string{"North Korea"}},
	{CanonicalName: "Kongo Cumhuriyeti", ISOCode: "CG", Aliases: []string{"Kongo"}},
	{CanonicalName: "Kongo Demokratik Cumhuriyeti", ISOCode: "CD", Aliases: []string{"Kongo", "DRC"}},
}

func run(t *testing.T, format string, defs []countries.Definition, args ...string) (*bytes.Buffer, *bytes.Buffer, error) {
	t.Helper()
	app := &application.Mock{
		Format: format,
		EventmapFunc: func(opts ...eventmap.Option) (eventmap.Client, error) {
			return eventmap.New(eventmap.WithDefinitions(defs), eventmap.WithLogger(logging.NewNopLogger()))
		},
	}
	cmd := NewCommand(app)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	return &out, &errOut, cmd.Execute()
}

func TestFilterDefinitions(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{"*kore", []string{"Güney Kore", "Kuzey Kore"}},
		{"turkey", []string{"Türkiye"}},
		{"TURKIYE", []string{"Türkiye"}},
		{"^(guney|kuzey) kore$", []string{"Güney Kore", "Kuzey Kore"}},
		{"drc", []string{"Kongo Demokratik Cumhuriyeti"}},
		{"atlantis", nil},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := filterDefinitions(testDefinitions, tt.pattern)
			require.NoError(t, err)
			var names []string
			for _, d := range got {
				names = append(names, d.CanonicalName)
			}
			assert.Equal(t, tt.want, names)
		})
	}

	_, err := filterDefinitions(testDefinitions, "^(")
	assert.True(t, errors.IsValidationError(err))
}

func TestCountriesJSON(t *testing.T) {
	out, _, err := run(t, "json", testDefinitions, "*kore")
	require.NoError(t, err)

	var defs []countries.Definition
	require.NoError(t, json.Unmarshal(out.Bytes(), &defs))
	require.Len(t, defs, 2)
	assert.Equal(t, "KR", defs[0].ISOCode)
}

func TestCountriesCollisions(t *testing.T) {
	out, _, err := run(t, "json", testDefinitions, "--collisions")
	require.NoError(t, err)

	var found []countries.Collision
	require.NoError(t, json.Unmarshal(out.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Kongo", found[0].Alias)
	assert.Equal(t, "Kongo Cumhuriyeti", found[0].Winner.Name)
	assert.Equal(t, "Kongo Demokratik Cumhuriyeti", found[0].Loser.Name)

	out, errOut, err := run(t, "table", testDefinitions[:3], "--collisions")
	require.NoError(t, err)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "no alias collisions")
}
