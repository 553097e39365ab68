package chat

// ToolSchema describes a tool the model may call. Properties keep the full
// JSON Schema of each parameter; adapters decide how much of it to forward.
type ToolSchema struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Parameters  *ParametersSchema `json:"parameters,omitempty"`
}

// ParametersSchema is the object schema of a tool's arguments.
type ParametersSchema struct {
	Type       string                    `json:"type,omitempty"`
	Properties map[string]map[string]any `json:"properties,omitempty"`
	Required   []string                  `json:"required,omitempty"`
}

type toolChoiceMode int

const (
	toolChoiceAuto toolChoiceMode = iota
	toolChoiceNone
	toolChoiceRequired
	toolChoiceTool
)

// ToolChoice controls which tools the model may call. The zero value is auto.
type ToolChoice struct {
	mode toolChoiceMode
	tool ToolSchema
}

// ToolChoiceAuto lets the model decide; all supplied tools are sent.
func ToolChoiceAuto() ToolChoice { return ToolChoice{mode: toolChoiceAuto} }

// ToolChoiceNone sends no tools even when some are supplied.
func ToolChoiceNone() ToolChoice { return ToolChoice{mode: toolChoiceNone} }

// ToolChoiceRequired sends all supplied tools and requires at least one.
func ToolChoiceRequired() ToolChoice { return ToolChoice{mode: toolChoiceRequired} }

// ToolChoiceTool sends only the given tool.
func ToolChoiceTool(tool ToolSchema) ToolChoice { return ToolChoice{mode: toolChoiceTool, tool: tool} }

// IsAuto reports whether the choice is auto.
func (c ToolChoice) IsAuto() bool { return c.mode == toolChoiceAuto }

// IsNone reports whether the choice is none.
func (c ToolChoice) IsNone() bool { return c.mode == toolChoiceNone }

// IsRequired reports whether the choice is required.
func (c ToolChoice) IsRequired() bool { return c.mode == toolChoiceRequired }

// Tool returns the specific tool and true when the choice names one.
func (c ToolChoice) Tool() (ToolSchema, bool) {
	return c.tool, c.mode == toolChoiceTool
}

// String returns the wire-style name of the choice.
func (c ToolChoice) String() string {
	switch c.mode {
	case toolChoiceNone:
		return "none"
	case toolChoiceRequired:
		return "required"
	case toolChoiceTool:
		return "tool:" + c.tool.Name
	default:
		return "auto"
	}
}
