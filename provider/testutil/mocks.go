package testutil

import (
	"context"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/envelope"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/model"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/stream"
)

// MockProvider implements model.Provider for testing
type MockProvider struct {
	// Configurable responses
	ChatFunc       func(ctx context.Context, messages []model.Message, opts model.ChatOptions) (*model.ChatResult, error)
	ChatStreamFunc func(ctx context.Context, messages []model.Message, opts model.ChatOptions) (*model.Stream, error)
	AvailableFunc  func(ctx context.Context) bool

	// Recorded state
	LastMessages []model.Message
	LastOptions  model.ChatOptions

	name  string
	model string
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{
		name:  "mock",
		model: modelName,
	}
	mock.ChatFunc = mock.defaultChat
	mock.ChatStreamFunc = mock.defaultChatStream
	mock.AvailableFunc = func(context.Context) bool { return true }
	return mock
}

// RespondWith makes the mock return rawText as the provider output for
// both the blocking and streaming paths; the text still goes through
// the real envelope parser and aggregator, like adapter output would.
func (m *MockProvider) RespondWith(rawText string, totalTokens int) *MockProvider {
	m.ChatFunc = func(ctx context.Context, messages []model.Message, opts model.ChatOptions) (*model.ChatResult, error) {
		return &model.ChatResult{
			Envelope:    envelope.Parse(rawText),
			Model:       m.model,
			TotalTokens: totalTokens,
		}, nil
	}
	m.ChatStreamFunc = func(ctx context.Context, messages []model.Message, opts model.ChatOptions) (*model.Stream, error) {
		return model.NewStream(stream.Aggregate(ctx, FragmentsFromText(rawText, totalTokens))), nil
	}
	return m
}

// FailWith makes every call return err.
func (m *MockProvider) FailWith(err error) *MockProvider {
	m.ChatFunc = func(context.Context, []model.Message, model.ChatOptions) (*model.ChatResult, error) {
		return nil, err
	}
	m.ChatStreamFunc = func(context.Context, []model.Message, model.ChatOptions) (*model.Stream, error) {
		return nil, err
	}
	m.AvailableFunc = func(context.Context) bool { return false }
	return m
}

func (m *MockProvider) defaultChat(ctx context.Context, messages []model.Message, opts model.ChatOptions) (*model.ChatResult, error) {
	return &model.ChatResult{
		Envelope: model.Envelope{Content: "Mock response", Elements: []model.UIElement{}},
		Model:    m.model,
	}, nil
}

func (m *MockProvider) defaultChatStream(ctx context.Context, messages []model.Message, opts model.ChatOptions) (*model.Stream, error) {
	return model.NewStream(stream.Aggregate(ctx, FragmentsFromText("Mock response", 0))), nil
}

func (m *MockProvider) Name() string  { return m.name }
func (m *MockProvider) Model() string { return m.model }

func (m *MockProvider) Chat(ctx context.Context, messages []model.Message, opts model.ChatOptions) (*model.ChatResult, error) {
	if len(messages) == 0 {
		return nil, model.ErrNoMessages
	}
	m.LastMessages = messages
	m.LastOptions = opts
	return m.ChatFunc(ctx, messages, opts)
}

func (m *MockProvider) ChatStream(ctx context.Context, messages []model.Message, opts model.ChatOptions) (*model.Stream, error) {
	if len(messages) == 0 {
		return nil, model.ErrNoMessages
	}
	m.LastMessages = messages
	m.LastOptions = opts
	return m.ChatStreamFunc(ctx, messages, opts)
}

func (m *MockProvider) Available(ctx context.Context) bool {
	return m.AvailableFunc(ctx)
}
