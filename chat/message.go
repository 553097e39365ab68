package chat

// Message is one entry of a conversation. The set of implementations is
// closed: SystemMessage, UserMessage, AssistantMessage and
// FunctionExecutionResultMessage.
type Message interface {
	isMessage()
}

// SystemMessage carries instructions for the model.
type SystemMessage struct {
	Content string
}

// UserMessage carries input from a user or another agent.
type UserMessage struct {
	Content UserContent
	// Source names the sender and must satisfy ValidateName.
	Source string
}

// AssistantMessage carries an earlier model reply, either text or tool calls.
type AssistantMessage struct {
	Content AssistantContent
	// Thought is reasoning text that accompanied a tool-call reply.
	Thought string
	// Source names the sender and must satisfy ValidateName.
	Source string
}

// FunctionExecutionResultMessage carries the results of executed tool calls.
type FunctionExecutionResultMessage struct {
	Content []FunctionExecutionResult
}

func (SystemMessage) isMessage()                  {}
func (UserMessage) isMessage()                    {}
func (AssistantMessage) isMessage()               {}
func (FunctionExecutionResultMessage) isMessage() {}

// UserContent is either plain text or an ordered list of parts.
type UserContent struct {
	Text  string
	Parts []Part
}

// UserText builds text-only user content.
func UserText(text string) UserContent {
	return UserContent{Text: text}
}

// UserParts builds multi-part user content.
func UserParts(parts ...Part) UserContent {
	if parts == nil {
		parts = []Part{}
	}
	return UserContent{Parts: parts}
}

// IsMultipart reports whether the content is a part list rather than text.
func (c UserContent) IsMultipart() bool {
	return c.Parts != nil
}

// HasImages reports whether any part is an image.
func (c UserContent) HasImages() bool {
	for _, p := range c.Parts {
		switch p.(type) {
		case Image, *Image:
			return true
		}
	}
	return false
}

// Part is one element of multi-part user content: Text or Image.
type Part interface {
	isPart()
}

// Text is a text part of multi-part user content.
type Text string

func (Text) isPart()  {}
func (Image) isPart() {}

// AssistantContent is either text or an ordered list of tool calls.
type AssistantContent struct {
	Text          string
	FunctionCalls []FunctionCall
}

// AssistantText builds text assistant content.
func AssistantText(text string) AssistantContent {
	return AssistantContent{Text: text}
}

// AssistantCalls builds tool-call assistant content.
func AssistantCalls(calls ...FunctionCall) AssistantContent {
	if calls == nil {
		calls = []FunctionCall{}
	}
	return AssistantContent{FunctionCalls: calls}
}

// IsFunctionCalls reports whether the content is a tool-call list.
func (c AssistantContent) IsFunctionCalls() bool {
	return c.FunctionCalls != nil
}

// FunctionCall is a request by the model to invoke a tool.
type FunctionCall struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Arguments is a JSON object encoded as a string.
	Arguments string `json:"arguments"`
}

// FunctionExecutionResult is the outcome of one executed FunctionCall.
type FunctionExecutionResult struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}
