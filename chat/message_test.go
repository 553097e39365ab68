package chat

import "testing"

func TestUserContent(t *testing.T) {
	if UserText("hi").IsMultipart() {
		t.Error("text content should not be multipart")
	}
	empty := UserParts()
	if !empty.IsMultipart() {
		t.Error("empty part list should still be multipart")
	}
	withImage := UserParts(Text("look"), Image{Width: 1, Height: 1})
	if !withImage.HasImages() {
		t.Error("expected HasImages for image part")
	}
	if UserParts(Text("only text")).HasImages() {
		t.Error("expected no images")
	}
}

func TestAssistantContent(t *testing.T) {
	if AssistantText("ok").IsFunctionCalls() {
		t.Error("text content should not be function calls")
	}
	if !AssistantCalls().IsFunctionCalls() {
		t.Error("empty call list should still be function calls")
	}
}

func TestRequest_HasImages(t *testing.T) {
	req := &Request{Messages: []Message{
		SystemMessage{Content: "sys"},
		&UserMessage{Content: UserParts(&Image{}), Source: "user"},
	}}
	if !req.HasImages() {
		t.Error("expected pointer user message with image to be detected")
	}
	req.Messages = req.Messages[:1]
	if req.HasImages() {
		t.Error("expected no images")
	}
}

func TestToolChoice(t *testing.T) {
	var zero ToolChoice
	if !zero.IsAuto() || zero.String() != "auto" {
		t.Error("zero value should be auto")
	}
	if !ToolChoiceNone().IsNone() || !ToolChoiceRequired().IsRequired() {
		t.Error("unexpected mode")
	}
	tool, ok := ToolChoiceTool(ToolSchema{Name: "search"}).Tool()
	if !ok || tool.Name != "search" {
		t.Errorf("expected specific tool, got %+v %v", tool, ok)
	}
	if _, ok := ToolChoiceAuto().Tool(); ok {
		t.Error("auto should not name a tool")
	}
}

func TestCreateResult_IsFunctionCall(t *testing.T) {
	r := &CreateResult{Content: "hello"}
	if r.IsFunctionCall() {
		t.Error("text result should not be a function call")
	}
	r = &CreateResult{FunctionCalls: []FunctionCall{{ID: "0", Name: "f", Arguments: "{}"}}}
	if !r.IsFunctionCall() {
		t.Error("expected function call result")
	}
}
