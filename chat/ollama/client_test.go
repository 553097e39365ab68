package ollama

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"

	"github.com/kbukum/chatkit/chat"
	"github.com/kbukum/chatkit/errors"
	"github.com/kbukum/chatkit/logger"
	"github.com/kbukum/chatkit/observability"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		code errors.ErrorCode
	}{
		{"missing model", Config{}, errors.ErrCodeInvalidInput},
		{"bad host", Config{Model: "llama3.1", Host: "not a url"}, errors.ErrCodeInvalidInput},
		{"bad keep_alive", Config{Model: "llama3.1", KeepAlive: "soon"}, errors.ErrCodeInvalidInput},
		{"unknown model", Config{Model: "mystery"}, errors.ErrCodeUnknownModel},
		{
			"json format on text-only model",
			Config{Model: "mystery", ModelInfo: &chat.ModelInfo{}, Extra: map[string]any{"format": "json"}},
			errors.ErrCodeUnsupportedCapability,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, WithBackend(&fakeBackend{}), WithLogger(logger.Nop()))
			if !errors.IsCode(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	c := newTestClient(t, &fakeBackend{}, Config{Model: "qwen2.5:7b"})
	if c.Config().Host != DefaultHost {
		t.Errorf("expected default host, got %q", c.Config().Host)
	}
	if !c.ModelInfo().FunctionCalling {
		t.Error("expected registry capabilities for tagged model")
	}
	if c.Name() != "ollama" {
		t.Errorf("unexpected name %q", c.Name())
	}
}

func TestNew_HTTPBackend(t *testing.T) {
	c, err := New(Config{Model: "llama3.1", Host: "http://127.0.0.1:1"}, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := c.backend.(*HTTPBackend); !ok {
		t.Errorf("expected HTTP backend, got %T", c.backend)
	}
	if err := c.Close(context.Background()); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestCreate_Text(t *testing.T) {
	backend := &fakeBackend{chatFn: func(*ChatRequest) (*ChatResponse, error) {
		return textResponse("llama3.1", "Hello!", 10, 5), nil
	}}
	c := newTestClient(t, backend, Config{})

	result, err := c.Create(context.Background(), &chat.Request{Messages: []chat.Message{userText("hi")}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Content != "Hello!" || result.FinishReason != chat.FinishStop || result.IsFunctionCall() {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Usage != (chat.RequestUsage{PromptTokens: 10, CompletionTokens: 5}) {
		t.Errorf("unexpected usage: %+v", result.Usage)
	}
	if c.TotalUsage() != result.Usage || c.ActualUsage() != result.Usage {
		t.Errorf("expected totals to match usage, got %+v / %+v", c.TotalUsage(), c.ActualUsage())
	}

	req := backend.lastRequest()
	if req.Stream == nil || *req.Stream {
		t.Error("expected stream=false")
	}
}

func TestCreate_FinishReasons(t *testing.T) {
	tests := []struct {
		reason string
		want   chat.FinishReason
	}{
		{"stop", chat.FinishStop},
		{"END_TURN", chat.FinishStop},
		{"tool_calls", chat.FinishFunctionCalls},
		{"length", chat.FinishUnknown},
		{"", chat.FinishUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			if got := normalizeFinishReason(tt.reason); got != tt.want {
				t.Errorf("normalizeFinishReason(%q) = %q, want %q", tt.reason, got, tt.want)
			}
		})
	}
}

func TestCreate_ToolCalls(t *testing.T) {
	thought := "Let me check."
	backend := &fakeBackend{chatFn: func(*ChatRequest) (*ChatResponse, error) {
		return &ChatResponse{
			Model: "llama3.1",
			Message: Message{
				Role:    RoleAssistant,
				Content: &thought,
				ToolCalls: []ToolCall{
					{Function: ToolCallFunction{Name: "get weather", Arguments: map[string]any{"city": "Paris"}}},
					{Function: ToolCallFunction{Name: "get_time"}},
				},
			},
			Done:       true,
			DoneReason: "stop",
		}, nil
	}}
	c := newTestClient(t, backend, Config{})

	req := &chat.Request{Messages: []chat.Message{userText("weather?")}, Tools: []chat.ToolSchema{weatherTool, timeTool}}
	result, err := c.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.FinishReason != chat.FinishFunctionCalls {
		t.Errorf("expected function_calls, got %q", result.FinishReason)
	}
	if result.Thought != thought || result.Content != "" {
		t.Errorf("expected text as thought, got %+v", result)
	}
	if len(result.FunctionCalls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(result.FunctionCalls))
	}
	first, second := result.FunctionCalls[0], result.FunctionCalls[1]
	if first.Name != "get_weather" {
		t.Errorf("expected normalized name, got %q", first.Name)
	}
	if first.Arguments != `{"city":"Paris"}` || second.Arguments != `{}` {
		t.Errorf("unexpected arguments: %q, %q", first.Arguments, second.Arguments)
	}
	if first.ID == second.ID {
		t.Errorf("expected distinct call ids, got %q twice", first.ID)
	}

	again, err := c.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if again.FunctionCalls[0].ID == first.ID || again.FunctionCalls[0].ID == second.ID {
		t.Error("expected call ids to keep increasing across calls")
	}
	if got := backend.lastRequest().Tools; len(got) != 2 {
		t.Errorf("expected tools on the wire, got %d", len(got))
	}
}

func TestCreate_ThinkingBecomesThought(t *testing.T) {
	backend := &fakeBackend{chatFn: func(*ChatRequest) (*ChatResponse, error) {
		resp := textResponse("llama3.1", "42", 1, 1)
		resp.Message.Thinking = "six times seven"
		return resp, nil
	}}
	c := newTestClient(t, backend, Config{})
	result, err := c.Create(context.Background(), &chat.Request{Messages: []chat.Message{userText("q")}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Content != "42" || result.Thought != "six times seven" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestCreate_MissingContentAndCounts(t *testing.T) {
	backend := &fakeBackend{chatFn: func(*ChatRequest) (*ChatResponse, error) {
		return &ChatResponse{Model: "llama3.1", Done: true}, nil
	}}
	c := newTestClient(t, backend, Config{})
	result, err := c.Create(context.Background(), &chat.Request{Messages: []chat.Message{userText("q")}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Content != "" || result.FinishReason != chat.FinishUnknown || result.Usage != (chat.RequestUsage{}) {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestCreate_ModelMismatchWarns(t *testing.T) {
	tests := []struct {
		resolved string
		warn     bool
	}{
		{"llama3.1", false},
		{"llama3.1:latest", false},
		{"llama3.2", true},
	}
	for _, tt := range tests {
		t.Run(tt.resolved, func(t *testing.T) {
			var buf bytes.Buffer
			backend := &fakeBackend{chatFn: func(*ChatRequest) (*ChatResponse, error) {
				return textResponse(tt.resolved, "ok", 1, 1), nil
			}}
			c := newTestClient(t, backend, Config{}, WithLogger(logger.NewWithWriter(&buf, "warn")))
			if _, err := c.Create(context.Background(), &chat.Request{Messages: []chat.Message{userText("q")}}); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if got := strings.Contains(buf.String(), "resolved model differs"); got != tt.warn {
				t.Errorf("warned = %v, want %v (log %q)", got, tt.warn, buf.String())
			}
		})
	}
}

func TestCreate_BackendErrorLeavesTotals(t *testing.T) {
	boom := stderrors.New("connection refused")
	backend := &fakeBackend{err: boom}
	c := newTestClient(t, backend, Config{})

	_, err := c.Create(context.Background(), &chat.Request{Messages: []chat.Message{userText("q")}})
	if !stderrors.Is(err, boom) {
		t.Errorf("expected backend error to propagate, got %v", err)
	}
	if errors.IsAppError(err) {
		t.Error("backend errors must not be converted")
	}
	if c.TotalUsage() != (chat.RequestUsage{}) {
		t.Errorf("expected untouched totals, got %+v", c.TotalUsage())
	}
}

func TestCreate_PreconditionSkipsBackend(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestClient(t, backend, Config{})
	_, err := c.Create(context.Background(), &chat.Request{
		Messages:   []chat.Message{userText("q")},
		ToolChoice: chat.ToolChoiceRequired(),
	})
	if !errors.IsCode(err, errors.ErrCodeNoToolsProvided) {
		t.Errorf("expected NO_TOOLS_PROVIDED, got %v", err)
	}
	if backend.calls() != 0 {
		t.Errorf("expected no backend call, got %d", backend.calls())
	}
}

func TestCreate_ConcurrentUsage(t *testing.T) {
	usage := map[string][2]int{"a": {10, 5}, "b": {20, 3}}
	backend := &fakeBackend{chatFn: func(req *ChatRequest) (*ChatResponse, error) {
		u := usage[*req.Messages[0].Content]
		return textResponse("llama3.1", "ok", u[0], u[1]), nil
	}}
	c := newTestClient(t, backend, Config{})

	var wg sync.WaitGroup
	for _, text := range []string{"a", "b"} {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			if _, err := c.Create(context.Background(), &chat.Request{Messages: []chat.Message{userText(text)}}); err != nil {
				t.Errorf("Create() error = %v", err)
			}
		}(text)
	}
	wg.Wait()

	want := chat.RequestUsage{PromptTokens: 30, CompletionTokens: 8}
	if c.TotalUsage() != want || c.ActualUsage() != want {
		t.Errorf("expected %+v, got %+v / %+v", want, c.TotalUsage(), c.ActualUsage())
	}
}

func TestClient_Health(t *testing.T) {
	up := newTestClient(t, &fakeBackend{version: "0.5.1"}, Config{})
	if !up.IsAvailable(context.Background()) {
		t.Error("expected available")
	}
	h := up.CheckHealth(context.Background())
	if h.Status != observability.HealthStatusUp || h.Details["version"] != "0.5.1" {
		t.Errorf("unexpected health: %+v", h)
	}

	down := newTestClient(t, &fakeBackend{err: stderrors.New("refused")}, Config{})
	if down.IsAvailable(context.Background()) {
		t.Error("expected unavailable")
	}
	sh := observability.NewServiceHealth("chat", "test").Check(context.Background(), down)
	if sh.Status != observability.HealthStatusDown {
		t.Errorf("expected service down, got %s", sh.Status)
	}
}
