package provider

import (
	"testing"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/model"
)

func TestWithContractPrependsSystemMessage(t *testing.T) {
	conversation := []model.Message{
		{Role: model.RoleUser, Content: "hello"},
		{Role: model.RoleAssistant, Content: "hi"},
	}

	out := withContract(conversation)

	if len(out) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(out))
	}
	if out[0].Role != model.RoleSystem || out[0].Content != envelopeContract {
		t.Errorf("first message must be the output contract, got %+v", out[0])
	}
	if out[1].Content != "hello" || out[2].Content != "hi" {
		t.Error("conversation order must be preserved")
	}
	// The caller's slice must not be mutated.
	if conversation[0].Role != model.RoleUser {
		t.Error("input slice was mutated")
	}
}

func TestResolveSampling(t *testing.T) {
	cfg := Config{Temperature: 0.7, MaxTokens: 1000}

	tests := []struct {
		name     string
		opts     model.ChatOptions
		wantTemp float64
		wantMax  int
	}{
		{"defaults", model.ChatOptions{}, 0.7, 1000},
		{"temperature override", model.ChatOptions{Temperature: 0.1}, 0.1, 1000},
		{"max tokens override", model.ChatOptions{MaxTokens: 500}, 0.7, 500},
		{"both", model.ChatOptions{Temperature: 0.2, MaxTokens: 64}, 0.2, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			temp, maxTok := resolveSampling(cfg, tt.opts)
			if temp != tt.wantTemp {
				t.Errorf("temperature = %v, want %v", temp, tt.wantTemp)
			}
			if maxTok != tt.wantMax {
				t.Errorf("maxTokens = %d, want %d", maxTok, tt.wantMax)
			}
		})
	}
}
