package embedded

import (
	"embed"
)

// FS embeds the default data files shipped with the binary, including the
// country definitions used when no countries file is configured.
//
//go:embed data/*
var FS embed.FS

// CountriesFile is the path of the default country definitions inside FS.
const CountriesFile = "data/countries.yaml"
