package model

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared across the provider and streaming layers.
var (
	// ErrNoMessages is returned when a chat call receives an empty
	// conversation history.
	ErrNoMessages = errors.New("message sequence must not be empty")

	// ErrStreamConsumed is returned on an attempt to re-consume an
	// already-consumed stream.
	ErrStreamConsumed = errors.New("stream already consumed")
)

// ChatOptions tune a single chat call. Zero values fall back to the
// adapter's configured defaults.
type ChatOptions struct {
	Temperature float64
	MaxTokens   int
}

// ChatResult is the outcome of one non-streaming chat call.
type ChatResult struct {
	Envelope    Envelope
	Model       string
	TotalTokens int
	Elapsed     time.Duration
}

// Provider abstracts LLM backends (OpenAI and compatibles, Anthropic,
// Ollama) behind provider-agnostic types.
//
// This interface lives in the model package, not the provider package,
// so that implementations can import model without an import cycle and
// consumers (chat, nl2sql) never depend on a concrete backend.
type Provider interface {
	// Name returns the provider identifier, e.g. "openai" or "ollama".
	Name() string

	// Model returns the model identifier used for API calls.
	Model() string

	// Chat sends the conversation and blocks until the provider returns
	// a complete response. The adapter prepends the structured-output
	// system instruction; callers pass only the conversation itself.
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (*ChatResult, error)

	// ChatStream sends the conversation and returns immediately with a
	// single-consumption stream of normalized events. The raw provider
	// stream is buffered to completion before structured events are
	// emitted; see the stream package for the ordering guarantees.
	ChatStream(ctx context.Context, messages []Message, opts ChatOptions) (*Stream, error)

	// Available probes the backend with a lightweight capability check
	// (list models where supported). It never returns an error: any
	// transport failure is logged and reported as false.
	Available(ctx context.Context) bool
}
