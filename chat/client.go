package chat

import "context"

// Request is the input of one completion call.
type Request struct {
	Messages   []Message
	Tools      []ToolSchema
	ToolChoice ToolChoice
	JSONOutput JSONOutput
	// Extra holds per-call create arguments layered over the client's defaults.
	Extra map[string]any
}

// HasImages reports whether any user message carries an image part.
func (r *Request) HasImages() bool {
	for _, m := range r.Messages {
		switch um := m.(type) {
		case UserMessage:
			if um.Content.HasImages() {
				return true
			}
		case *UserMessage:
			if um.Content.HasImages() {
				return true
			}
		}
	}
	return false
}

// Client is a chat-completion client bound to one model.
type Client interface {
	// Create runs a single non-streaming completion.
	Create(ctx context.Context, req *Request) (*CreateResult, error)
	// CreateStream runs a streaming completion. The channel yields zero or
	// more Text events followed by exactly one Result or Err event, then closes.
	CreateStream(ctx context.Context, req *Request) (<-chan StreamEvent, error)
	// CountTokens estimates the prompt size of messages and tools.
	CountTokens(messages []Message, tools []ToolSchema) (int, error)
	// RemainingTokens is the model's token limit minus CountTokens.
	RemainingTokens(messages []Message, tools []ToolSchema) (int, error)
	// TotalUsage is the running usage of all successful calls.
	TotalUsage() RequestUsage
	// ActualUsage is the running usage of all successful calls, kept apart
	// from TotalUsage for adapters that discount cached tokens.
	ActualUsage() RequestUsage
	// ModelInfo returns the capabilities the client was built with.
	ModelInfo() ModelInfo
	// Close releases the backend connection.
	Close(ctx context.Context) error
}
