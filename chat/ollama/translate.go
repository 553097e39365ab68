package ollama

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/chatkit/chat"
	"github.com/kbukum/chatkit/errors"
	"github.com/kbukum/chatkit/util"
)

// translateMessages flattens a conversation into wire messages, keeping order.
func translateMessages(msgs []chat.Message) ([]Message, error) {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		wire, err := translateMessage(m)
		if err != nil {
			return nil, err
		}
		out = append(out, wire...)
	}
	return out, nil
}

// translateMessage converts one message into one or more wire messages.
func translateMessage(msg chat.Message) ([]Message, error) {
	switch m := msg.(type) {
	case chat.SystemMessage:
		return []Message{{Role: RoleSystem, Content: util.Ptr(m.Content)}}, nil
	case chat.UserMessage:
		return userMessages(m)
	case chat.AssistantMessage:
		am, err := assistantMessage(m)
		if err != nil {
			return nil, err
		}
		return []Message{am}, nil
	case chat.FunctionExecutionResultMessage:
		out := make([]Message, 0, len(m.Content))
		for _, r := range m.Content {
			out = append(out, Message{Role: RoleTool, Content: util.Ptr(r.Content), ToolName: r.Name})
		}
		return out, nil
	case *chat.SystemMessage:
		if m != nil {
			return translateMessage(*m)
		}
	case *chat.UserMessage:
		if m != nil {
			return translateMessage(*m)
		}
	case *chat.AssistantMessage:
		if m != nil {
			return translateMessage(*m)
		}
	case *chat.FunctionExecutionResultMessage:
		if m != nil {
			return translateMessage(*m)
		}
	}
	return nil, errors.InvalidContentPart(fmt.Sprintf("%T", msg))
}

// userMessages applies the positional image rule: text parts always start a
// new message, and an image joins the last emitted message or, when there is
// none yet, starts an image-only one.
func userMessages(m chat.UserMessage) ([]Message, error) {
	if _, err := chat.ValidateName(m.Source); err != nil {
		return nil, err
	}
	if !m.Content.IsMultipart() {
		return []Message{{Role: RoleUser, Content: util.Ptr(m.Content.Text)}}, nil
	}

	var out []Message
	for _, part := range m.Content.Parts {
		switch p := part.(type) {
		case chat.Text:
			out = append(out, Message{Role: RoleUser, Content: util.Ptr(string(p))})
		case chat.Image:
			if err := p.Validate(); err != nil {
				return nil, err
			}
			out = attachImage(out, p)
		case *chat.Image:
			if p == nil {
				return nil, errors.InvalidContentPart("nil image")
			}
			if err := p.Validate(); err != nil {
				return nil, err
			}
			out = attachImage(out, *p)
		default:
			return nil, errors.InvalidContentPart(fmt.Sprintf("%T", part))
		}
	}
	return out, nil
}

func attachImage(out []Message, img chat.Image) []Message {
	if len(out) == 0 {
		return append(out, Message{Role: RoleUser, Images: []string{img.Base64()}})
	}
	last := &out[len(out)-1]
	last.Images = append(last.Images, img.Base64())
	return out
}

func assistantMessage(m chat.AssistantMessage) (Message, error) {
	if _, err := chat.ValidateName(m.Source); err != nil {
		return Message{}, err
	}
	if !m.Content.IsFunctionCalls() {
		return Message{Role: RoleAssistant, Content: util.Ptr(m.Content.Text)}, nil
	}

	calls := make([]ToolCall, 0, len(m.Content.FunctionCalls))
	for _, fc := range m.Content.FunctionCalls {
		var args map[string]any
		if err := json.Unmarshal([]byte(fc.Arguments), &args); err != nil {
			return Message{}, errors.InvalidToolArguments(fc.Name, err)
		}
		calls = append(calls, ToolCall{Function: ToolCallFunction{Name: fc.Name, Arguments: args}})
	}
	return Message{Role: RoleAssistant, ToolCalls: calls}, nil
}
