// Package provider implements LLM provider adapters behind the common
// model.Provider interface.
//
// The chat core supports multiple backends (OpenAI and OpenAI-compatible
// endpoints, Anthropic, local Ollama) through one interface, so the
// orchestration and NL-to-SQL layers stay provider-agnostic. Each
// adapter owns the translation between the core's provider-agnostic
// types and its backend SDK, prepends the structured-output contract,
// and normalizes streaming into the shared fragment/event pipeline.
//
// Adapter selection happens exactly once, at construction time, via
// NewProvider; there is no per-call dispatch on provider names.
//
// Note: the Provider interface itself is defined in the model package
// (model/provider.go) to avoid import cycles. This package implements it.
package provider

// Type identifies the adapter family.
type Type string

const (
	TypeOpenAI    Type = "openai"
	TypeAnthropic Type = "anthropic"
	TypeOllama    Type = "ollama"
)

// Config holds the connection parameters for one logical provider.
// Built once at startup from the configuration layer and never mutated.
type Config struct {
	Type    Type
	Name    string // user-facing selector, e.g. "openrouter"; defaults to Type
	BaseURL string
	APIKey  string
	Model   string

	// Sampling defaults, overridable per call through model.ChatOptions.
	Temperature float64
	MaxTokens   int

	// ExtraHeaders are sent verbatim on every request, for gateways
	// that require additional identification headers.
	ExtraHeaders map[string]string
}

// name returns the user-facing selector for logging and results.
func (c Config) name() string {
	if c.Name != "" {
		return c.Name
	}
	return string(c.Type)
}
