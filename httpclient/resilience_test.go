package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/chatkit/resilience"
)

func statusServer(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestClient_CircuitBreaker(t *testing.T) {
	srv, calls := statusServer(t, http.StatusInternalServerError)
	c, err := New(Config{
		BaseURL:        srv.URL,
		CircuitBreaker: &resilience.CircuitBreakerConfig{Name: "ollama", MaxFailures: 2, OpenTimeout: time.Hour},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	for range 2 {
		if _, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/version"}); !IsServerError(err) {
			t.Fatalf("expected server error, got %v", err)
		}
	}
	if c.CircuitState() != resilience.StateOpen {
		t.Fatalf("expected open circuit, got %s", c.CircuitState())
	}

	if _, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/version"}); !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if _, err := c.DoStream(ctx, Request{Method: http.MethodPost, Path: "/api/chat"}); !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen for stream, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected open circuit to stop calls, got %d", got)
	}
}

func TestClient_CircuitBreaker_IgnoresClientErrors(t *testing.T) {
	srv, calls := statusServer(t, http.StatusNotFound)
	c, _ := New(Config{BaseURL: srv.URL, CircuitBreaker: &resilience.CircuitBreakerConfig{MaxFailures: 1}})

	for range 3 {
		_, _ = c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/chat"})
	}
	if c.CircuitState() != resilience.StateClosed {
		t.Errorf("expected closed circuit, got %s", c.CircuitState())
	}
	if calls.Load() != 3 {
		t.Errorf("expected every call to reach the server, got %d", calls.Load())
	}
}

func TestClient_CircuitState_NoBreaker(t *testing.T) {
	c, _ := New(Config{BaseURL: "http://localhost:11434"})
	if c.CircuitState() != resilience.StateClosed {
		t.Errorf("expected closed without a breaker, got %s", c.CircuitState())
	}
}

func TestIsServerFailure(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{NewConnectionError(errors.New("refused")), true},
		{ClassifyStatusCode(http.StatusBadGateway, nil), true},
		{ClassifyStatusCode(http.StatusNotFound, nil), false},
		{ClassifyStatusCode(http.StatusBadRequest, nil), false},
		{NewTimeoutError(context.Canceled), false},
		{errors.New("plain"), false},
	}
	for _, tt := range tests {
		if got := IsServerFailure(tt.err); got != tt.want {
			t.Errorf("IsServerFailure(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
