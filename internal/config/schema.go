package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

// documentSchema is compiled once at startup; the schema is embedded and a
// compile failure is a build defect.
var documentSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource("config-schema.json", bytes.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("failed to add embedded schema resource: %v", err))
	}
	schema, err := compiler.Compile("config-schema.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile embedded schema: %v", err))
	}
	return schema
}

// validateSchema checks the raw document against the embedded JSON Schema
// before any typed decoding happens. The generic decode also catches YAML
// syntax errors, so every parse problem funnels through here first.
func validateSchema(data []byte) error {
	var generic interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// The schema validator expects values as encoding/json decodes them,
	// so the YAML tree is round-tripped through JSON first.
	jsonBytes, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("failed to normalize document: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, &generic); err != nil {
		return fmt.Errorf("failed to normalize document: %w", err)
	}

	if err := documentSchema.Validate(generic); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			return formatSchemaError(validationErr)
		}
		return fmt.Errorf("document schema validation failed: %w", err)
	}
	return nil
}

// formatSchemaError flattens a nested jsonschema validation error into one
// line per leaf cause.
func formatSchemaError(err *jsonschema.ValidationError) error {
	var leaves []string

	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			leaves = append(leaves, fmt.Sprintf("%s: %s", loc, e.Message))
			return
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)

	return fmt.Errorf("document schema validation failed:\n  - %s", strings.Join(leaves, "\n  - "))
}
