package types

import "strings"

// Type is the canonical language name an engine is registered under.
type Type string

const (
	// Risor engine: https://github.com/risor-io/risor
	Risor Type = "risor"

	// Starlark engine: https://github.com/google/starlark-go
	Starlark Type = "starlark"

	// Extism WASM engine: https://extism.org/
	Extism Type = "wasm"
)

// String returns the language name.
func (t Type) String() string {
	return string(t)
}

// Normalize lower-cases and trims a language name so lookups are case-insensitive.
func Normalize(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}
