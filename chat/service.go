// Package chat orchestrates one conversation turn: persist the user
// message, call the provider, persist the assistant reply. All
// parsing, streaming and transport concerns live below it.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/model"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/storage"
)

// MessageStore is the slice of the storage layer the service needs.
type MessageStore interface {
	CreateSession(ctx context.Context, name, modelName string) (*storage.Session, error)
	GetSession(ctx context.Context, id string) (*storage.Session, error)
	RenameSession(ctx context.Context, id, newName string) error
	AppendMessage(ctx context.Context, msg *storage.Message) error
	History(ctx context.Context, sessionID string) ([]model.Message, error)
}

// Service runs chat turns against a provider and records them.
type Service struct {
	provider model.Provider
	store    MessageStore

	// Sampling defaults applied to every turn. Zero values defer to
	// the provider's own defaults.
	Temperature float64
	MaxTokens   int
}

// NewService creates a chat service.
func NewService(p model.Provider, store MessageStore) *Service {
	return &Service{provider: p, store: store}
}

// StartSession creates a new session bound to the service's provider
// model. The session is named after the first user message later.
func (s *Service) StartSession(ctx context.Context) (*storage.Session, error) {
	return s.store.CreateSession(ctx, "", s.provider.Model())
}

// Send runs one blocking turn in the given session and returns the
// parsed result. The user message is persisted before the provider
// call; the assistant reply is persisted only when the call succeeds.
func (s *Service) Send(ctx context.Context, sessionID, text string) (*model.ChatResult, error) {
	history, err := s.prepareTurn(ctx, sessionID, text)
	if err != nil {
		return nil, err
	}

	result, err := s.provider.Chat(ctx, history, s.options())
	if err != nil {
		return nil, fmt.Errorf("chat turn failed: %w", err)
	}

	if err := s.store.AppendMessage(ctx, &storage.Message{
		SessionID:   sessionID,
		Role:        model.RoleAssistant,
		Content:     result.Envelope.Content,
		Elements:    result.Envelope.Elements,
		TotalTokens: result.TotalTokens,
	}); err != nil {
		return nil, fmt.Errorf("failed to persist assistant reply: %w", err)
	}

	return result, nil
}

// SendStream runs one streaming turn. The returned channel carries the
// aggregated event sequence; the assistant reply is persisted from the
// observed events just before the done event is forwarded, so a
// consumer that has seen the terminal event can rely on the turn being
// recorded. Turns that end in an error event are not persisted.
func (s *Service) SendStream(ctx context.Context, sessionID, text string) (<-chan model.StreamEvent, error) {
	history, err := s.prepareTurn(ctx, sessionID, text)
	if err != nil {
		return nil, err
	}

	stream, err := s.provider.ChatStream(ctx, history, s.options())
	if err != nil {
		return nil, fmt.Errorf("chat stream failed: %w", err)
	}
	events, err := stream.Events()
	if err != nil {
		return nil, err
	}

	out := make(chan model.StreamEvent)
	go s.relay(ctx, sessionID, events, out)
	return out, nil
}

// relay forwards events while collecting the assistant reply for
// persistence.
func (s *Service) relay(ctx context.Context, sessionID string, events <-chan model.StreamEvent, out chan<- model.StreamEvent) {
	defer close(out)

	reply := storage.Message{
		SessionID: sessionID,
		Role:      model.RoleAssistant,
	}

	for event := range events {
		switch event.Type {
		case model.EventText:
			reply.Content += event.Content
		case model.EventAGUI:
			if event.Element != nil {
				reply.Elements = append(reply.Elements, *event.Element)
			}
		case model.EventDone:
			if event.Metadata != nil {
				reply.TotalTokens = event.Metadata.TotalTokens
			}
			if err := s.store.AppendMessage(ctx, &reply); err != nil {
				slog.Error("failed to persist assistant reply",
					"session", sessionID, "error", err)
			}
		}

		select {
		case out <- event:
		case <-ctx.Done():
			return
		}
	}
}

// prepareTurn loads the history, persists the user message and names
// fresh sessions after it. The returned slice ends with the new user
// message.
func (s *Service) prepareTurn(ctx context.Context, sessionID, text string) ([]model.Message, error) {
	history, err := s.store.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	if len(history) == 0 {
		if err := s.store.RenameSession(ctx, sessionID, storage.GenerateSessionName(text)); err != nil {
			slog.Warn("failed to name session", "session", sessionID, "error", err)
		}
	}

	userMsg := &storage.Message{
		SessionID: sessionID,
		Role:      model.RoleUser,
		Content:   text,
	}
	if err := s.store.AppendMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	return append(history, model.Message{
		Role:      model.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	}), nil
}

func (s *Service) options() model.ChatOptions {
	return model.ChatOptions{
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	}
}
