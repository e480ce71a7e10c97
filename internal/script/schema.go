package script

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects a JSON schema for structured outputs. Inlined
// definitions and closed properties keep every provider's validator happy.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// scriptSchema is the cached schema handed to every provider.
var scriptSchema = GenerateSchema[Script]()

// schemaParts splits the reflected schema into the properties map and
// required list that tool-style APIs take separately.
func schemaParts() (map[string]any, []string, error) {
	raw, err := json.Marshal(scriptSchema)
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling script schema: %w", err)
	}
	var m struct {
		Properties map[string]any `json:"properties"`
		Required   []string       `json:"required"`
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("splitting script schema: %w", err)
	}
	return m.Properties, m.Required, nil
}
