package rules

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRuleSetJSONSchema returns a JSON-Schema (draft 2020-12 subset) for the
// rule-source payload: an ordered array of rule sets. We validate remote
// payloads against it before compiling any pattern, so a bad deploy of the
// rule source degrades to a fetch failure instead of corrupting the cache.
func BuildRuleSetJSONSchema() map[string]any {
	fieldProps := map[string]any{
		"field":         map[string]any{"type": "string", "minLength": 1},
		"regex":         map[string]any{"type": "string"},
		"group":         map[string]any{"type": "integer", "minimum": 1},
		"default_value": map[string]any{"type": "string"},
	}
	ruleSetProps := map[string]any{
		"name": map[string]any{"type": "string", "minLength": 1},
		"patterns": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           fieldProps,
				"required":             []string{"field", "regex", "group"},
			},
		},
	}
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties":           ruleSetProps,
			"required":             []string{"name", "patterns"},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
