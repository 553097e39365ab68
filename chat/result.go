package chat

// FinishReason explains why the model stopped generating.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishFunctionCalls FinishReason = "function_calls"
	FinishUnknown       FinishReason = "unknown"
)

// RequestUsage counts the tokens of one call, or a running total of calls.
type RequestUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Add returns the element-wise sum of u and other.
func (u RequestUsage) Add(other RequestUsage) RequestUsage {
	return RequestUsage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
	}
}

// CreateResult is the outcome of one completion. Its content is either text
// or, when FunctionCalls is non-nil, an ordered list of tool calls.
type CreateResult struct {
	FinishReason  FinishReason   `json:"finish_reason"`
	Content       string         `json:"content,omitempty"`
	FunctionCalls []FunctionCall `json:"function_calls,omitempty"`
	Usage         RequestUsage   `json:"usage"`
	// Thought is model reasoning emitted alongside tool calls.
	Thought string `json:"thought,omitempty"`
	Cached  bool   `json:"cached"`
}

// IsFunctionCall reports whether the result content is a tool-call list.
func (r *CreateResult) IsFunctionCall() bool {
	return r.FunctionCalls != nil
}

// StreamEvent is one element of a streaming completion: a text fragment,
// the final result, or a terminal error.
type StreamEvent struct {
	Text   string
	Result *CreateResult
	Err    error
}

// ModelFamily groups models that share prompt conventions.
type ModelFamily string

const (
	FamilyLlama    ModelFamily = "llama"
	FamilyMistral  ModelFamily = "mistral"
	FamilyQwen     ModelFamily = "qwen"
	FamilyGemma    ModelFamily = "gemma"
	FamilyPhi      ModelFamily = "phi"
	FamilyDeepSeek ModelFamily = "deepseek"
	FamilyLlava    ModelFamily = "llava"
	FamilyUnknown  ModelFamily = "unknown"
)

// ModelInfo lists the capabilities of a model. It is read-only to clients.
type ModelInfo struct {
	Vision          bool        `json:"vision" mapstructure:"vision" yaml:"vision"`
	FunctionCalling bool        `json:"function_calling" mapstructure:"function_calling" yaml:"function_calling"`
	JSONOutput      bool        `json:"json_output" mapstructure:"json_output" yaml:"json_output"`
	Family          ModelFamily `json:"family" mapstructure:"family" yaml:"family"`
	// TokenLimit is the context window; zero when unknown.
	TokenLimit int `json:"token_limit,omitempty" mapstructure:"token_limit" yaml:"token_limit"`
}
