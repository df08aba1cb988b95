package apiClient

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const envelopeSchemaURL = "process-pdf-response.json"

// tokens is an usage object on current backends and a bare integer on the
// legacy one
const envelopeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["success"],
  "properties": {
    "success": {"type": "boolean"},
    "error": {"type": ["string", "null"]},
    "data": {"type": ["object", "string", "null"]},
    "tokens": {
      "oneOf": [
        {"type": "null"},
        {"type": "integer"},
        {
          "type": "object",
          "properties": {
            "input_tokens": {"type": "integer", "minimum": 0},
            "output_tokens": {"type": "integer", "minimum": 0}
          }
        }
      ]
    }
  },
  "if": {"properties": {"success": {"const": true}}},
  "then": {"required": ["data"]}
}`

const documentTypesSchemaURL = "document-types-response.json"

const documentTypesSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["document_types"],
  "properties": {
    "success": {"type": "boolean"},
    "document_types": {"type": "array", "items": {"type": "string"}}
  }
}`

func compileSchema(url, schema string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return compiled, nil
}
