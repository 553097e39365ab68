package ollama

import (
	"github.com/kbukum/chatkit/chat"
)

const defaultPropertyType = "string"

// ConvertTools reduces tool schemas to the typed form the backend accepts.
// Each property keeps only its type and description. Names are validated
// after conversion and one bad name fails the whole call.
func ConvertTools(tools []chat.ToolSchema) ([]Tool, error) {
	out := make([]Tool, 0, len(tools))
	for _, t := range tools {
		fn := ToolFunction{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  ToolParameters{Type: "object"},
		}
		if p := t.Parameters; p != nil {
			fn.Parameters.Required = p.Required
			fn.Parameters.Properties = make(map[string]Property, len(p.Properties))
			for name, schema := range p.Properties {
				fn.Parameters.Properties[name] = Property{
					Type:        propertyType(schema),
					Description: stringField(schema, "description"),
				}
			}
		}
		out = append(out, Tool{Type: "function", Function: fn})
	}

	for _, t := range out {
		if _, err := chat.ValidateName(t.Function.Name); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// propertyType resolves a property's type: the explicit type, else the type
// of the first anyOf branch that is not "null", else "string".
func propertyType(schema map[string]any) string {
	if t := schemaType(schema["type"]); t != "" {
		return t
	}
	if _, ok := schema["type"]; ok {
		return defaultPropertyType
	}
	for _, branch := range anyOfBranches(schema["anyOf"]) {
		t := schemaType(branch["type"])
		if t == "null" {
			continue
		}
		if t == "" {
			break
		}
		return t
	}
	return defaultPropertyType
}

// schemaType reads a JSON Schema type keyword. For a type list the first
// non-null entry wins.
func schemaType(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		for _, s := range t {
			if s != "null" {
				return s
			}
		}
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s != "null" {
				return s
			}
		}
	}
	return ""
}

func anyOfBranches(v any) []map[string]any {
	switch branches := v.(type) {
	case []map[string]any:
		return branches
	case []any:
		out := make([]map[string]any, 0, len(branches))
		for _, b := range branches {
			if m, ok := b.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func stringField(schema map[string]any, key string) string {
	s, _ := schema[key].(string)
	return s
}
