package provider

import (
	"testing"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/model"
)

func TestToOllamaMessages(t *testing.T) {
	messages := []model.Message{
		{Role: model.RoleSystem, Content: "be terse"},
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleAssistant, Content: "hello"},
	}

	out := toOllamaMessages(messages)

	if len(out) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(out))
	}
	for i, msg := range messages {
		if out[i].Role != string(msg.Role) || out[i].Content != msg.Content {
			t.Errorf("message %d: got %s/%q, want %s/%q",
				i, out[i].Role, out[i].Content, msg.Role, msg.Content)
		}
	}
}

func TestToAnthropicMessagesSeparatesSystem(t *testing.T) {
	messages := []model.Message{
		{Role: model.RoleSystem, Content: "contract"},
		{Role: model.RoleSystem, Content: "be terse"},
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleAssistant, Content: "hello"},
	}

	msgs, system := toAnthropicMessages(messages)

	if len(system) != 2 {
		t.Fatalf("expected 2 system blocks, got %d", len(system))
	}
	if system[0].Text != "contract" || system[1].Text != "be terse" {
		t.Errorf("system block order wrong: %+v", system)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 conversation messages, got %d", len(msgs))
	}
}

func TestToOpenAIMessagesUnknownRoleBecomesUser(t *testing.T) {
	out := toOpenAIMessages([]model.Message{{Role: "tool", Content: "x"}})
	if len(out) != 1 {
		t.Fatalf("expected 1 message, got %d", len(out))
	}
	if out[0].OfUser == nil {
		t.Error("unknown role should map to a user message")
	}
}
