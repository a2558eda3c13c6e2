package model

import (
	"encoding/json"
	"testing"
)

func TestMessageRoleWireFormat(t *testing.T) {
	raw, err := json.Marshal(Message{Role: RoleAssistant, Content: "hi"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if wire["role"] != "assistant" {
		t.Errorf("role wire value = %v, want plain string", wire["role"])
	}

	var decoded Message
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Role != RoleAssistant {
		t.Errorf("Role = %q, want %q", decoded.Role, RoleAssistant)
	}
}
