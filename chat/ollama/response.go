package ollama

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kbukum/chatkit/chat"
	"github.com/kbukum/chatkit/errors"
)

var finishReasons = map[string]chat.FinishReason{
	"stop":       chat.FinishStop,
	"end_turn":   chat.FinishStop,
	"tool_calls": chat.FinishFunctionCalls,
}

// normalizeFinishReason maps a backend done reason onto the generic set.
func normalizeFinishReason(reason string) chat.FinishReason {
	if fr, ok := finishReasons[strings.ToLower(reason)]; ok {
		return fr
	}
	return chat.FinishUnknown
}

// functionCalls converts backend tool calls, normalizing names and giving
// each call a fresh id.
func (c *Client) functionCalls(calls []ToolCall) ([]chat.FunctionCall, error) {
	out := make([]chat.FunctionCall, 0, len(calls))
	for _, tc := range calls {
		args := tc.Function.Arguments
		if args == nil {
			args = map[string]any{}
		}
		data, err := json.Marshal(args)
		if err != nil {
			return nil, errors.InvalidToolArguments(tc.Function.Name, err)
		}
		out = append(out, chat.FunctionCall{
			ID:        c.nextCallID(),
			Name:      chat.NormalizeName(tc.Function.Name),
			Arguments: string(data),
		})
	}
	return out, nil
}

func (c *Client) nextCallID() string {
	return strconv.FormatUint(c.toolCallSeq.Add(1), 10)
}

// usageOf reads token counts from a final response.
func usageOf(resp *ChatResponse) chat.RequestUsage {
	if resp == nil {
		return chat.RequestUsage{}
	}
	return chat.RequestUsage{
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
	}
}

// resultFrom builds the result of a non-streaming call.
func (c *Client) resultFrom(resp *ChatResponse) (*chat.CreateResult, error) {
	result := &chat.CreateResult{Usage: usageOf(resp)}
	content := ""
	if resp.Message.Content != nil {
		content = *resp.Message.Content
	}

	if len(resp.Message.ToolCalls) > 0 {
		calls, err := c.functionCalls(resp.Message.ToolCalls)
		if err != nil {
			return nil, err
		}
		result.FinishReason = chat.FinishFunctionCalls
		result.FunctionCalls = calls
		result.Thought = content
	} else {
		result.FinishReason = normalizeFinishReason(resp.DoneReason)
		result.Content = content
	}
	if result.Thought == "" {
		result.Thought = resp.Message.Thinking
	}
	return result, nil
}
