package provider

import (
	"testing"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name: "ollama provider with defaults",
			config: Config{
				Type: TypeOllama,
			},
			expectError: false,
		},
		{
			name: "ollama provider with custom config",
			config: Config{
				Type:    TypeOllama,
				BaseURL: "http://localhost:11434",
				Model:   "llama3.1",
			},
			expectError: false,
		},
		{
			name: "openai provider",
			config: Config{
				Type:    TypeOpenAI,
				BaseURL: "https://api.openai.com/v1",
				Model:   "gpt-4o-mini",
				APIKey:  "test-key",
			},
			expectError: false,
		},
		{
			name: "openai provider without key fails fast",
			config: Config{
				Type:  TypeOpenAI,
				Model: "gpt-4o-mini",
			},
			expectError: true,
		},
		{
			name: "anthropic provider",
			config: Config{
				Type:   TypeAnthropic,
				APIKey: "test-key",
			},
			expectError: false,
		},
		{
			name: "anthropic provider without key fails fast",
			config: Config{
				Type: TypeAnthropic,
			},
			expectError: true,
		},
		{
			name: "openrouter rides the openai adapter",
			config: Config{
				Type:    TypeOpenAI,
				Name:    "openrouter",
				BaseURL: "https://openrouter.ai/api/v1",
				APIKey:  "test-key",
				Model:   "meta-llama/llama-3.2-90b-instruct",
			},
			expectError: false,
		},
		{
			name: "unknown provider type",
			config: Config{
				Type: Type("unknown"),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p == nil {
				t.Fatal("expected provider, got nil")
			}
			if p.Model() == "" {
				t.Error("expected a default model to be applied")
			}
		})
	}
}

func TestNewProviderKeepsSelectorName(t *testing.T) {
	p, err := NewProvider(Config{
		Type:   TypeOpenAI,
		Name:   "openrouter",
		APIKey: "k",
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "openrouter" {
		t.Errorf("expected selector name kept, got %q", p.Name())
	}
}

func TestMapProviderIDToType(t *testing.T) {
	tests := []struct {
		id   string
		want Type
	}{
		{"ollama", TypeOllama},
		{"openai", TypeOpenAI},
		{"openrouter", TypeOpenAI},
		{"lmstudio", TypeOpenAI},
		{"anthropic", TypeAnthropic},
		{"something-else", Type("something-else")},
	}

	for _, tt := range tests {
		if got := MapProviderIDToType(tt.id); got != tt.want {
			t.Errorf("MapProviderIDToType(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
