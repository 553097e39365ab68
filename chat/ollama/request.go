package ollama

import (
	"encoding/json"

	"github.com/kbukum/chatkit/chat"
	"github.com/kbukum/chatkit/errors"
)

// Names of the response-format directives, as reported in conflicts.
const (
	directiveResponseFormat = "response_format"
	directiveJSONOutput     = "json_output"
	directiveFormat         = "format"
)

// Capability names reported by UnsupportedCapability.
const (
	capabilityJSON            = "json output"
	capabilityVision          = "vision"
	capabilityFunctionCalling = "function calling"
)

// CreateParams is everything one backend call needs. It is built fresh for
// every call and never shared.
type CreateParams struct {
	Messages []Message
	Tools    []Tool
	Format   json.RawMessage
	Args     CreateArgs
}

// chatRequest renders the params as a wire request.
func (p *CreateParams) chatRequest(stream bool) *ChatRequest {
	req := &ChatRequest{
		Model:     p.Args.Model,
		Messages:  p.Messages,
		Stream:    &stream,
		Format:    p.Format,
		Options:   p.Args.Options.Map(),
		KeepAlive: KeepAlive(p.Args.KeepAlive),
		Think:     p.Args.Think,
	}
	if len(p.Tools) > 0 {
		req.Tools = p.Tools
	}
	return req
}

// buildCreateParams layers per-call arguments over the client defaults,
// checks preconditions and translates the request. It never calls the backend.
func (c *Client) buildCreateParams(req *chat.Request) (*CreateParams, error) {
	if req == nil {
		return nil, errors.InvalidInput("request", "request is nil")
	}

	args := c.baseArgs
	if len(req.Extra) > 0 {
		override, err := ParseCreateArgs(req.Extra, c.log)
		if err != nil {
			return nil, err
		}
		args = args.Merge(override)
	}

	format, err := c.resolveFormat(args, req.JSONOutput)
	if err != nil {
		return nil, err
	}
	// The resolved directive replaces both raw arguments.
	args.Format = nil
	args.ResponseFormat = nil

	if req.HasImages() && !c.info.Vision {
		return nil, errors.UnsupportedCapability(c.model, capabilityVision)
	}

	messages, err := translateMessages(req.Messages)
	if err != nil {
		return nil, err
	}

	tools, err := c.selectTools(req.Tools, req.ToolChoice)
	if err != nil {
		return nil, err
	}

	return &CreateParams{
		Messages: messages,
		Tools:    tools,
		Format:   format,
		Args:     args,
	}, nil
}

// resolveFormat picks the single response-format directive in force. At most
// one of response_format, the JSON output directive and format may be set,
// and any JSON directive needs a model with JSON output.
func (c *Client) resolveFormat(args CreateArgs, output chat.JSONOutput) (json.RawMessage, error) {
	var set []string
	if args.ResponseFormat != nil {
		set = append(set, directiveResponseFormat)
	}
	if output.IsSet() {
		set = append(set, directiveJSONOutput)
	}
	if formatSet(args.Format) {
		set = append(set, directiveFormat)
	}
	if len(set) > 1 {
		return nil, errors.ConflictingFormat(set[0], set[1])
	}
	if len(set) == 0 {
		return nil, nil
	}

	var (
		raw json.RawMessage
		err error
	)
	switch set[0] {
	case directiveResponseFormat:
		c.log.Warn("response_format is deprecated, use the JSON output directive instead")
		raw, err = schemaDocument(args.ResponseFormat)
	case directiveJSONOutput:
		raw, err = output.Format()
		if err != nil {
			err = errors.InvalidInput("json_output", "cannot encode schema").WithCause(err)
		}
	default:
		raw, err = formatValue(args.Format)
	}
	if err != nil {
		return nil, err
	}
	if raw != nil && !c.info.JSONOutput {
		return nil, errors.UnsupportedCapability(c.model, capabilityJSON)
	}
	return raw, nil
}

// selectTools applies the tool-choice policy. Supplying tools to a model
// without function calling fails whatever the choice.
func (c *Client) selectTools(tools []chat.ToolSchema, choice chat.ToolChoice) ([]Tool, error) {
	named, hasNamed := choice.Tool()
	if (len(tools) > 0 || hasNamed) && !c.info.FunctionCalling {
		return nil, errors.UnsupportedCapability(c.model, capabilityFunctionCalling)
	}

	var selected []chat.ToolSchema
	switch {
	case hasNamed:
		selected = []chat.ToolSchema{named}
	case choice.IsNone():
		return nil, nil
	case choice.IsRequired():
		if len(tools) == 0 {
			return nil, errors.NoToolsProvided()
		}
		selected = tools
	default:
		selected = tools
	}
	if len(selected) == 0 {
		return nil, nil
	}
	return ConvertTools(selected)
}
