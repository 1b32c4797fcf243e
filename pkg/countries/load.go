package countries

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/eventmap/pkg/errors"
)

// fileEntry accepts both the canonical_name/iso_code shape and the legacy
// mapping-file shape (turkish, english, iso2).
type fileEntry struct {
	CanonicalName string   `yaml:"canonical_name"`
	Name          string   `yaml:"name"`
	Turkish       string   `yaml:"turkish"`
	English       string   `yaml:"english"`
	ISOCode       string   `yaml:"iso_code"`
	ISO2          string   `yaml:"iso2"`
	Aliases       []string `yaml:"aliases"`
}

type fileDocument struct {
	Countries []fileEntry `yaml:"countries"`
}

func (e fileEntry) definition() Definition {
	d := Definition{
		CanonicalName: firstNonEmpty(e.CanonicalName, e.Turkish, e.Name),
		ISOCode:       strings.ToUpper(strings.TrimSpace(firstNonEmpty(e.ISOCode, e.ISO2))),
	}
	if strings.TrimSpace(e.English) != "" {
		d.Aliases = append(d.Aliases, e.English)
	}
	d.Aliases = append(d.Aliases, e.Aliases...)
	return d
}

// ParseDefinitions decodes country definitions from YAML or JSON. The input
// may be a top-level list of entries or a mapping with a "countries" list.
func ParseDefinitions(data []byte) ([]Definition, error) {
	var shape any
	if err := yaml.Unmarshal(data, &shape); err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}

	var entries []fileEntry
	switch shape.(type) {
	case nil:
		return []Definition{}, nil
	case []any:
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, errors.WrapParse("yaml", "", err)
		}
	case map[string]any:
		var doc fileDocument
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.WrapParse("yaml", "", err)
		}
		entries = doc.Countries
	default:
		return nil, errors.NewParseError("yaml", "", "expected a list of countries or a mapping with a countries key", nil)
	}

	defs := make([]Definition, 0, len(entries))
	for _, e := range entries {
		defs = append(defs, e.definition())
	}
	return defs, nil
}

// LoadDefinitions reads and parses a definitions file.
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	defs, err := ParseDefinitions(data)
	if err != nil {
		var perr *errors.ParseError
		if errors.As(err, &perr) {
			perr.File = path
			perr.Format = formatOf(path)
		}
		return nil, err
	}
	return defs, nil
}

// MarshalDefinitions encodes definitions as YAML in the canonical_name/iso_code shape.
func MarshalDefinitions(defs []Definition) ([]byte, error) {
	return yaml.MarshalWithOptions(fileDocumentOut{Countries: defs},
		yaml.Indent(2),
		yaml.IndentSequence(true),
	)
}

type fileDocumentOut struct {
	Countries []Definition `yaml:"countries"`
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
