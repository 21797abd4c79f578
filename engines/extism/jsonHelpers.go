package extism

import (
	"bytes"
	"encoding/json"

	"github.com/robbyt/go-polybridge/internal/helpers"
)

// marshalInput serializes bindings as the JSON object passed to the entry point.
func marshalInput(bindings map[string]any) ([]byte, error) {
	if len(bindings) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(bindings)
}

// decodeOutput parses output as JSON, falling back to the raw string.
func decodeOutput(output []byte) any {
	if len(bytes.TrimSpace(output)) == 0 {
		return nil
	}
	if v, ok := helpers.DecodeJSON(output); ok {
		return v
	}
	return string(output)
}
