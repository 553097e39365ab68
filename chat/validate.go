package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/kbukum/chatkit/errors"
)

// ValidateArguments checks a tool call's arguments against the tool's
// parameter schema. Callers use it before executing a model-produced call.
func ValidateArguments(tool ToolSchema, call FunctionCall) error {
	args, err := jsonschema.UnmarshalJSON(strings.NewReader(call.Arguments))
	if err != nil {
		return errors.InvalidToolArguments(call.Name, err)
	}
	if _, ok := args.(map[string]any); !ok {
		return errors.InvalidToolArguments(call.Name, fmt.Errorf("got %T", args))
	}
	if tool.Parameters == nil {
		return nil
	}

	raw, err := json.Marshal(tool.Parameters)
	if err != nil {
		return errors.Internal(err)
	}
	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return errors.Internal(err)
	}

	compiler := jsonschema.NewCompiler()
	url := fmt.Sprintf("tool-%s.json", tool.Name)
	if err := compiler.AddResource(url, schemaDoc); err != nil {
		return errors.InvalidInput("parameters", fmt.Sprintf("invalid schema for tool %q", tool.Name)).WithCause(err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return errors.InvalidInput("parameters", fmt.Sprintf("invalid schema for tool %q", tool.Name)).WithCause(err)
	}
	if err := schema.Validate(args); err != nil {
		return errors.InvalidToolArguments(call.Name, err)
	}
	return nil
}
