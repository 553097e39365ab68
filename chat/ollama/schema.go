package ollama

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	schemacheck "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/kbukum/chatkit/errors"
)

const formatJSON = "json"

// schemaDocument renders a schema-like value as a JSON Schema document and
// checks that it compiles. Accepted inputs are *jsonschema.Schema,
// jsonschema.Schema, a decoded JSON object, or raw JSON object bytes.
func schemaDocument(v any) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	switch s := v.(type) {
	case *jsonschema.Schema:
		if s == nil {
			return nil, errors.InvalidResponseFormat(v)
		}
		data, err = json.Marshal(s)
	case jsonschema.Schema:
		data, err = json.Marshal(&s)
	case map[string]any:
		data, err = json.Marshal(s)
	case json.RawMessage:
		data = s
	case []byte:
		data = s
	default:
		return nil, errors.InvalidResponseFormat(v)
	}
	if err != nil {
		return nil, errors.InvalidResponseFormat(v).WithCause(err)
	}
	if err := compileSchema(data); err != nil {
		return nil, errors.InvalidResponseFormat(v).WithCause(err)
	}
	return json.RawMessage(data), nil
}

// compileSchema fails unless data is a JSON object that compiles as a schema.
func compileSchema(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode schema: %w", err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return fmt.Errorf("schema must be a JSON object, got %T", doc)
	}
	compiler := schemacheck.NewCompiler()
	if err := compiler.AddResource("format-schema.json", doc); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	if _, err := compiler.Compile("format-schema.json"); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return nil
}

// formatValue renders a request "format" argument: "json" or a schema
// document. An empty string means unset.
func formatValue(v any) (json.RawMessage, error) {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "":
			return nil, nil
		case formatJSON:
			return json.RawMessage(`"json"`), nil
		default:
			return nil, errors.InvalidInput("format", fmt.Sprintf("format must be %q or a JSON schema, got %q", formatJSON, s))
		}
	}
	raw, err := schemaDocument(v)
	if err != nil {
		return nil, errors.InvalidInput("format", "format must be \"json\" or a JSON schema").WithCause(err)
	}
	return raw, nil
}

func formatSet(v any) bool {
	if v == nil {
		return false
	}
	s, ok := v.(string)
	return !ok || strings.TrimSpace(s) != ""
}
