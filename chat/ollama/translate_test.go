package ollama

import (
	"encoding/base64"
	"testing"

	"github.com/kbukum/chatkit/chat"
	"github.com/kbukum/chatkit/errors"
)

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func TestTranslateMessage_System(t *testing.T) {
	out, err := translateMessage(chat.SystemMessage{Content: "be brief"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Role != RoleSystem || *out[0].Content != "be brief" {
		t.Errorf("unexpected translation: %+v", out)
	}
}

func TestTranslateMessage_UserParts(t *testing.T) {
	imgA := chat.Image{Data: []byte("A")}
	imgB := &chat.Image{Data: []byte("B")}

	tests := []struct {
		name  string
		parts []chat.Part
		want  []Message
	}{
		{
			name:  "text then image",
			parts: []chat.Part{chat.Text("hello"), imgA},
			want: []Message{
				{Role: RoleUser, Content: strPtr("hello"), Images: []string{b64("A")}},
			},
		},
		{
			name:  "images only",
			parts: []chat.Part{imgA, imgB},
			want:  []Message{{Role: RoleUser, Images: []string{b64("A"), b64("B")}}},
		},
		{
			name:  "text parts start new messages",
			parts: []chat.Part{chat.Text("one"), imgA, chat.Text("two")},
			want: []Message{
				{Role: RoleUser, Content: strPtr("one"), Images: []string{b64("A")}},
				{Role: RoleUser, Content: strPtr("two")},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := translateMessage(chat.UserMessage{Content: chat.UserParts(tt.parts...), Source: "user"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertMessages(t, got, tt.want)
		})
	}
}

func TestTranslateMessage_ImageAttachesToLastMessage(t *testing.T) {
	got, err := translateMessage(&chat.UserMessage{
		Content: chat.UserParts(chat.Text("hello"), chat.Image{Data: []byte("A")}),
		Source:  "user",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The image joins the text message it follows.
	if len(got) != 1 || len(got[0].Images) != 1 || *got[0].Content != "hello" {
		t.Errorf("unexpected translation: %+v", got)
	}
}

func TestTranslateMessage_Assistant(t *testing.T) {
	got, err := translateMessage(chat.AssistantMessage{
		Content: chat.AssistantCalls(chat.FunctionCall{ID: "1", Name: "get_weather", Arguments: `{"city":"Paris"}`}),
		Source:  "assistant",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || len(got[0].ToolCalls) != 1 {
		t.Fatalf("unexpected translation: %+v", got)
	}
	fn := got[0].ToolCalls[0].Function
	if fn.Name != "get_weather" || fn.Arguments["city"] != "Paris" {
		t.Errorf("unexpected tool call: %+v", fn)
	}
	if got[0].Content != nil {
		t.Errorf("expected no content for tool-call message, got %q", *got[0].Content)
	}
}

func TestTranslateMessage_ToolResults(t *testing.T) {
	got, err := translateMessage(chat.FunctionExecutionResultMessage{Content: []chat.FunctionExecutionResult{
		{CallID: "1", Name: "a", Content: "sunny"},
		{CallID: "2", Name: "b", Content: "rain"},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Role != RoleTool || got[1].ToolName != "b" || *got[1].Content != "rain" {
		t.Errorf("unexpected translation: %+v", got)
	}
}

func TestTranslateMessage_Errors(t *testing.T) {
	tests := []struct {
		name string
		msg  chat.Message
		code errors.ErrorCode
	}{
		{"bad user source", chat.UserMessage{Content: chat.UserText("x"), Source: "bad name"}, errors.ErrCodeInvalidName},
		{"empty assistant source", chat.AssistantMessage{Content: chat.AssistantText("x")}, errors.ErrCodeInvalidName},
		{"nil image part", chat.UserMessage{Content: chat.UserParts((*chat.Image)(nil)), Source: "u"}, errors.ErrCodeInvalidContentPart},
		{"nil message", (*chat.SystemMessage)(nil), errors.ErrCodeInvalidContentPart},
		{
			"unknown image detail",
			chat.UserMessage{Content: chat.UserParts(chat.Image{Data: []byte("A")}.WithDetail("ultra")), Source: "u"},
			errors.ErrCodeInvalidInput,
		},
		{
			"unknown image detail by pointer",
			chat.UserMessage{Content: chat.UserParts(&chat.Image{Data: []byte("A"), Detail: "medium"}), Source: "u"},
			errors.ErrCodeInvalidInput,
		},
		{
			"bad tool arguments",
			chat.AssistantMessage{Content: chat.AssistantCalls(chat.FunctionCall{Name: "f", Arguments: "not json"}), Source: "a"},
			errors.ErrCodeInvalidToolArguments,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := translateMessage(tt.msg)
			if !errors.IsCode(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestTranslateMessages_KeepsOrder(t *testing.T) {
	got, err := translateMessages([]chat.Message{
		chat.SystemMessage{Content: "sys"},
		userText("hi"),
		chat.AssistantMessage{Content: chat.AssistantText("hello"), Source: "bot"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	roles := []string{RoleSystem, RoleUser, RoleAssistant}
	for i, m := range got {
		if m.Role != roles[i] {
			t.Errorf("message %d: expected role %s, got %s", i, roles[i], m.Role)
		}
	}
}

func strPtr(s string) *string { return &s }

func assertMessages(t *testing.T, got, want []Message) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Role != w.Role {
			t.Errorf("message %d: role %q, want %q", i, g.Role, w.Role)
		}
		if (g.Content == nil) != (w.Content == nil) || (g.Content != nil && *g.Content != *w.Content) {
			t.Errorf("message %d: content %v, want %v", i, g.Content, w.Content)
		}
		if len(g.Images) != len(w.Images) {
			t.Fatalf("message %d: images %v, want %v", i, g.Images, w.Images)
		}
		for j := range w.Images {
			if g.Images[j] != w.Images[j] {
				t.Errorf("message %d image %d: %q, want %q", i, j, g.Images[j], w.Images[j])
			}
		}
	}
}
