package ollama

import (
	"fmt"

	"github.com/kbukum/chatkit/chat"
	"github.com/kbukum/chatkit/logger"
	"github.com/kbukum/chatkit/tokenizer"
	"github.com/kbukum/chatkit/util"
)

// Fixed overheads of the prompt-size estimate.
const (
	tokensPerMessage  = 3
	tokensReplyPrimer = 3
	tokensPerTool     = -2
	tokensPerField    = 2
	tokensEnumBase    = -3
	tokensEnumValue   = 3
	tokensToolTail    = 11
	tokensNoProps     = -2
	tokensFixed       = 12
)

// CountTokens estimates the prompt size of messages and tools. The result
// approximates the backend tokenizer and is meant for capacity planning.
func CountTokens(enc tokenizer.Encoder, log *logger.Logger, messages []chat.Message, tools []chat.ToolSchema) (int, error) {
	if log == nil {
		log = logger.Nop()
	}

	total := 0
	for _, m := range messages {
		total += tokensPerMessage
		wire, err := translateMessage(m)
		if err != nil {
			return 0, err
		}
		for _, w := range wire {
			if w.Content != nil {
				total += enc.Count(*w.Content)
			}
		}
		total += imageTokens(m)
	}
	total += tokensReplyPrimer

	converted, err := ConvertTools(tools)
	if err != nil {
		return 0, err
	}
	for i, t := range converted {
		total += toolTokens(enc, log, t, tools[i])
	}
	return total + tokensFixed, nil
}

func imageTokens(m chat.Message) int {
	var content chat.UserContent
	switch um := m.(type) {
	case chat.UserMessage:
		content = um.Content
	case *chat.UserMessage:
		if um == nil {
			return 0
		}
		content = um.Content
	default:
		return 0
	}

	n := 0
	for _, p := range content.Parts {
		switch img := p.(type) {
		case chat.Image:
			n += tokenizer.VisionTokens(img.Width, img.Height, img.Detail)
		case *chat.Image:
			if img != nil {
				n += tokenizer.VisionTokens(img.Width, img.Height, img.Detail)
			}
		}
	}
	return n
}

func toolTokens(enc tokenizer.Encoder, log *logger.Logger, t Tool, src chat.ToolSchema) int {
	fn := t.Function
	n := enc.Count(fn.Name) + enc.Count(fn.Description) + tokensPerTool

	props := fn.Parameters.Properties
	if props == nil {
		return n
	}
	for _, name := range util.SortedKeys(props) {
		prop := props[name]
		n += enc.Count(name)
		n += tokensPerField + enc.Count(prop.Type)
		if prop.Description != "" {
			n += tokensPerField + enc.Count(prop.Description)
		}

		var schema map[string]any
		if src.Parameters != nil {
			schema = src.Parameters.Properties[name]
		}
		for _, field := range util.SortedKeys(schema) {
			switch field {
			case "type", "description", "anyOf":
			case "enum":
				n += tokensEnumBase
				for _, v := range enumValues(schema[field]) {
					n += tokensEnumValue + enc.Count(fmt.Sprint(v))
				}
			default:
				log.Warn("unsupported tool property field", logger.Fields(
					logger.FieldKey, field,
					"tool", fn.Name,
					"property", name,
				))
			}
		}
	}
	n += tokensToolTail
	if len(props) == 0 {
		n += tokensNoProps
	}
	return n
}

func enumValues(v any) []any {
	switch vals := v.(type) {
	case []any:
		return vals
	case []string:
		out := make([]any, len(vals))
		for i, s := range vals {
			out[i] = s
		}
		return out
	}
	return nil
}

// CountTokens estimates the prompt size of messages and tools for the
// client's model.
func (c *Client) CountTokens(messages []chat.Message, tools []chat.ToolSchema) (int, error) {
	enc, err := c.encoder()
	if err != nil {
		return 0, err
	}
	return CountTokens(enc, c.log, messages, tools)
}

// RemainingTokens is the model's token limit minus CountTokens.
func (c *Client) RemainingTokens(messages []chat.Message, tools []chat.ToolSchema) (int, error) {
	limit, err := c.tokenLimit()
	if err != nil {
		return 0, err
	}
	used, err := c.CountTokens(messages, tools)
	if err != nil {
		return 0, err
	}
	return limit - used, nil
}
