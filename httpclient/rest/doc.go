// Package rest provides typed JSON calls on top of httpclient.
//
//	client, _ := rest.New(httpclient.Config{BaseURL: "http://localhost:11434"})
//	resp, err := rest.Post[ChatResponse](ctx, client, "/api/chat", req)
//	version, err := rest.Get[VersionResponse](ctx, client, "/api/version")
package rest
