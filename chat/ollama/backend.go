package ollama

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/kbukum/chatkit/httpclient"
	"github.com/kbukum/chatkit/httpclient/rest"
	"github.com/kbukum/chatkit/provider"
)

const (
	chatPath    = "/api/chat"
	versionPath = "/api/version"

	// maxLineSize bounds one NDJSON chunk; image echoes can be large.
	maxLineSize = 16 << 20
)

// Backend is the wire contract of an Ollama server.
type Backend interface {
	// Chat sends a non-streaming request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	// ChatStream sends a streaming request and yields response chunks.
	ChatStream(ctx context.Context, req *ChatRequest) (provider.Iterator[*ChatResponse], error)
	// Ping checks that the server answers.
	Ping(ctx context.Context) (string, error)
	// Close releases connections.
	Close(ctx context.Context) error
}

// HTTPBackend implements Backend over the Ollama REST API.
type HTTPBackend struct {
	rest *rest.Client
}

// NewHTTPBackend creates a backend for the server described by cfg.
func NewHTTPBackend(cfg httpclient.Config) (*HTTPBackend, error) {
	c, err := rest.New(cfg)
	if err != nil {
		return nil, err
	}
	return &HTTPBackend{rest: c}, nil
}

// Chat posts req with streaming disabled.
func (b *HTTPBackend) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	resp, err := rest.Post[streamLine](ctx, b.rest, chatPath, req)
	if err != nil {
		return nil, fmt.Errorf("ollama: chat: %w", err)
	}
	if resp.Data.Error != "" {
		return nil, fmt.Errorf("ollama: chat: %s", resp.Data.Error)
	}
	return &resp.Data.ChatResponse, nil
}

// ChatStream posts req and returns an iterator over the NDJSON chunks.
func (b *HTTPBackend) ChatStream(ctx context.Context, req *ChatRequest) (provider.Iterator[*ChatResponse], error) {
	resp, err := b.rest.HTTP().DoStream(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    chatPath,
		Headers: map[string]string{"Accept": "application/x-ndjson"},
		Body:    req,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama: chat stream: %w", err)
	}
	return newChunkIterator(resp), nil
}

// Ping returns the server version.
func (b *HTTPBackend) Ping(ctx context.Context) (string, error) {
	resp, err := rest.Get[VersionResponse](ctx, b.rest, versionPath)
	if err != nil {
		return "", fmt.Errorf("ollama: version: %w", err)
	}
	return resp.Data.Version, nil
}

// Close drops idle connections.
func (b *HTTPBackend) Close(context.Context) error {
	b.rest.HTTP().Close()
	return nil
}

// streamLine is one response object; the server reports failures in-band.
type streamLine struct {
	ChatResponse
	Error string `json:"error,omitempty"`
}

// chunkIterator decodes newline-delimited JSON chunks from a response body.
type chunkIterator struct {
	resp    *httpclient.StreamResponse
	scanner *bufio.Scanner
	done    bool
}

func newChunkIterator(resp *httpclient.StreamResponse) *chunkIterator {
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &chunkIterator{resp: resp, scanner: sc}
}

// Next returns the next chunk. Blank lines are skipped.
func (it *chunkIterator) Next(ctx context.Context) (*ChatResponse, bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		if it.done {
			return nil, false, nil
		}
		if !it.scanner.Scan() {
			it.done = true
			if err := it.scanner.Err(); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, false, ctxErr
				}
				return nil, false, fmt.Errorf("ollama: read stream: %w", err)
			}
			return nil, false, nil
		}
		line := strings.TrimSpace(it.scanner.Text())
		if line == "" {
			continue
		}
		var chunk streamLine
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return nil, false, fmt.Errorf("ollama: decode stream chunk: %w", err)
		}
		if chunk.Error != "" {
			return nil, false, fmt.Errorf("ollama: stream: %s", chunk.Error)
		}
		return &chunk.ChatResponse, true, nil
	}
}

// Close closes the response body.
func (it *chunkIterator) Close() error {
	it.done = true
	return it.resp.Close()
}
