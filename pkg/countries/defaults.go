package countries

import (
	"sync"

	"github.com/agentstation/eventmap/internal/embedded"
	"github.com/agentstation/eventmap/pkg/errors"
)

var (
	defaultsOnce sync.Once
	defaultDefs  []Definition
	defaultErr   error
)

// Defaults returns the country definitions embedded in the binary.
// The returned slice is a copy and may be modified by the caller.
func Defaults() ([]Definition, error) {
	defaultsOnce.Do(func() {
		data, err := embedded.FS.ReadFile(embedded.CountriesFile)
		if err != nil {
			defaultErr = errors.WrapIO("read", embedded.CountriesFile, err)
			return
		}
		defaultDefs, defaultErr = ParseDefinitions(data)
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return cloneDefinitions(defaultDefs), nil
}

// MustDefaults is like Defaults but panics on error.
func MustDefaults() []Definition {
	defs, err := Defaults()
	if err != nil {
		panic(err)
	}
	return defs
}

func cloneDefinitions(defs []Definition) []Definition {
	out := make([]Definition, len(defs))
	for i, d := range defs {
		out[i] = d
		if d.Aliases != nil {
			out[i].Aliases = append([]string(nil), d.Aliases...)
		}
	}
	return out
}
