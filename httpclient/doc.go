// Package httpclient is the HTTP transport used to reach a model server.
//
// It resolves request paths against a base URL and applies default headers,
// authentication and TLS. Non-2xx responses become typed *Error values, and
// the server's own error text is kept when the body carries one. DoStream
// returns the raw response body for line-delimited streaming. An optional
// circuit breaker refuses requests while the server keeps failing.
//
//	c, err := httpclient.New(httpclient.Config{BaseURL: "http://localhost:11434"})
//	resp, err := c.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/api/version"})
package httpclient
