package chat

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

type jsonMode int

const (
	jsonUnset jsonMode = iota
	jsonText
	jsonObject
	jsonStructured
)

// JSONOutput is the response-format directive of a request. The zero value
// means no directive was given.
type JSONOutput struct {
	mode   jsonMode
	schema *jsonschema.Schema
}

// JSONMode asks the model for any well-formed JSON.
func JSONMode() JSONOutput { return JSONOutput{mode: jsonObject} }

// TextMode explicitly asks for plain text.
func TextMode() JSONOutput { return JSONOutput{mode: jsonText} }

// JSONSchema asks the model for JSON conforming to schema.
func JSONSchema(schema *jsonschema.Schema) JSONOutput {
	return JSONOutput{mode: jsonStructured, schema: schema}
}

// SchemaFor derives a structured directive from the Go type T.
func SchemaFor[T any]() (JSONOutput, error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return JSONOutput{}, err
	}
	return JSONSchema(schema), nil
}

// IsSet reports whether any directive was given, including TextMode.
func (o JSONOutput) IsSet() bool { return o.mode != jsonUnset }

// WantsJSON reports whether the directive requires JSON output.
func (o JSONOutput) WantsJSON() bool { return o.mode == jsonObject || o.mode == jsonStructured }

// Schema returns the structured schema, or nil.
func (o JSONOutput) Schema() *jsonschema.Schema { return o.schema }

// Format renders the directive as a backend format value: nil for none,
// "json" for JSON mode, or the schema document.
func (o JSONOutput) Format() (json.RawMessage, error) {
	switch o.mode {
	case jsonObject:
		return json.RawMessage(`"json"`), nil
	case jsonStructured:
		return json.Marshal(o.schema)
	default:
		return nil, nil
	}
}
