package utils

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GetSchemaFromConfig reflects config into a JSON schema that keeps named types under $defs.
func GetSchemaFromConfig(config any) (string, error) {
	schema := jsonschema.Reflect(config)

	return marshalSchema(schema)
}

// GetInlineSchemaFromConfig reflects config into a JSON schema with every type expanded in place.
func GetInlineSchemaFromConfig(config any) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true

	return marshalSchema(r.Reflect(config))
}

func marshalSchema(schema *jsonschema.Schema) (string, error) {
	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}
