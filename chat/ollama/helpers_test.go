package ollama

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/kbukum/chatkit/chat"
	"github.com/kbukum/chatkit/logger"
	"github.com/kbukum/chatkit/provider"
)

// wordEncoder counts whitespace-separated words.
type wordEncoder struct{}

func (wordEncoder) Count(text string) int { return len(strings.Fields(text)) }

type fakeBackend struct {
	mu       sync.Mutex
	requests []*ChatRequest

	chatFn  func(req *ChatRequest) (*ChatResponse, error)
	chunks  []*ChatResponse
	iter    provider.Iterator[*ChatResponse]
	err     error
	version string
	closed  bool
}

func (f *fakeBackend) Chat(_ context.Context, req *ChatRequest) (*ChatResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.chatFn(req)
}

func (f *fakeBackend) ChatStream(_ context.Context, req *ChatRequest) (provider.Iterator[*ChatResponse], error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.iter != nil {
		return f.iter, nil
	}
	return provider.FromSlice(f.chunks...), nil
}

func (f *fakeBackend) Ping(context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.version, nil
}

func (f *fakeBackend) Close(context.Context) error {
	f.closed = true
	return nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeBackend) lastRequest() *ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func textResponse(model, text string, prompt, completion int) *ChatResponse {
	return &ChatResponse{
		Model:           model,
		Message:         Message{Role: RoleAssistant, Content: &text},
		Done:            true,
		DoneReason:      "stop",
		PromptEvalCount: prompt,
		EvalCount:       completion,
	}
}

func chunk(text string) *ChatResponse {
	return &ChatResponse{Model: "llama3.1", Message: Message{Role: RoleAssistant, Content: &text}}
}

func newTestClient(t *testing.T, b Backend, cfg Config, opts ...Option) *Client {
	t.Helper()
	if cfg.Model == "" {
		cfg.Model = "llama3.1"
	}
	opts = append([]Option{WithBackend(b), WithLogger(logger.Nop()), WithEncoder(wordEncoder{})}, opts...)
	c, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func userText(text string) chat.UserMessage {
	return chat.UserMessage{Content: chat.UserText(text), Source: "user"}
}

// drain collects stream events until the channel closes.
func drain(t *testing.T, ch <-chan chat.StreamEvent) (texts []string, result *chat.CreateResult, err error) {
	t.Helper()
	for ev := range ch {
		switch {
		case ev.Err != nil:
			err = ev.Err
		case ev.Result != nil:
			result = ev.Result
		default:
			texts = append(texts, ev.Text)
		}
	}
	return texts, result, err
}
