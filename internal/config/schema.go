package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "gsd://config.schema.json"

// planningSchema constrains the merged settings tree. Unknown keys are allowed
// so newer config files keep loading on older binaries.
const planningSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "GSD planning config",
  "type": "object",
  "properties": {
    "mode": { "type": "string", "enum": ["yolo", "interactive"] },
    "depth": { "type": "string", "enum": ["quick", "standard", "comprehensive"] },
    "model_profile": { "type": "string", "enum": ["quality", "balanced", "budget"] },
    "commit_docs": { "type": "boolean" },
    "workflow": {
      "type": "object",
      "properties": {
        "research": { "type": "boolean" },
        "plan_check": { "type": "boolean" },
        "verifier": { "type": "boolean" }
      }
    },
    "planning": {
      "type": "object",
      "properties": {
        "max_tasks_per_plan": { "type": "integer", "minimum": 1 }
      }
    },
    "gates": {
      "type": "object",
      "properties": {
        "plan_review": { "type": "boolean" }
      }
    }
  }
}`

// ValidationError reports the first schema violation in the settings tree.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return "invalid settings: " + e.Message
	}
	return fmt.Sprintf("invalid settings at %s: %s", e.Path, e.Message)
}

func validate(merged map[string]any) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(planningSchema)); err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	// Round-trip through JSON so TOML and YAML scalar types validate alike.
	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return firstCause(ve)
		}
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

func firstCause(ve *jsonschema.ValidationError) error {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	path := strings.TrimPrefix(ve.InstanceLocation, "/")
	return &ValidationError{Path: strings.ReplaceAll(path, "/", "."), Message: ve.Message}
}
