package provider

import (
	"fmt"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/model"
)

// NewProvider creates a provider adapter based on configuration.
//
// This is the centralized factory for every adapter family. Credential
// and endpoint validation happens here, at construction, before any
// network call: a missing API key or an invalid base URL fails fast
// instead of surfacing on the first request.
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case TypeOpenAI:
		return NewOpenAIProvider(cfg)
	case TypeAnthropic:
		return NewAnthropicProvider(cfg)
	case TypeOllama:
		return NewOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts a user-facing provider ID into the
// adapter family that serves it.
//
// OpenRouter and LM Studio expose OpenAI-compatible APIs, so they ride
// on the OpenAI adapter with their own base URL.
//
// For unknown IDs, returns the ID cast as Type (factory will error).
func MapProviderIDToType(id string) Type {
	switch id {
	case "ollama":
		return TypeOllama
	case "openai", "openrouter", "lmstudio":
		return TypeOpenAI
	case "anthropic":
		return TypeAnthropic
	default:
		return Type(id)
	}
}
