// Package resilience guards calls to a model server with a circuit breaker
// that fails fast while the server keeps failing, then lets trial calls
// through once it may have recovered.
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("ollama"))
//	resp, err := resilience.Call(cb, func() (*Response, error) { return send(ctx) })
//	if errors.Is(err, resilience.ErrCircuitOpen) {
//	    // server marked down; no request was sent
//	}
package resilience
