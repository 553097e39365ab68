// Package ollama implements chat.Client for an Ollama server.
//
// A Client translates generic messages and tool schemas into the /api/chat
// wire format, enforces the capabilities of its model before any backend
// call, and maps responses back to chat.CreateResult. Streaming calls are
// delivered over a channel and honour context cancellation between chunks.
//
// Client defaults come from Config; per-call arguments in chat.Request.Extra
// are decoded with ParseCreateArgs and layered over them.
//
//	client, err := ollama.New(ollama.Config{Model: "llama3.1"})
//	if err != nil {
//		return err
//	}
//	result, err := client.Create(ctx, &chat.Request{
//		Messages: []chat.Message{chat.UserMessage{Content: chat.UserText("hi"), Source: "user"}},
//	})
package ollama
