package model

import (
	"encoding/json"
	"fmt"
	"sync"
)

// EventType discriminates StreamEvent payloads.
type EventType string

const (
	EventText  EventType = "text"
	EventAGUI  EventType = "agui"
	EventError EventType = "error"
	EventDone  EventType = "done"
)

// StreamMetadata travels on the terminal done event.
type StreamMetadata struct {
	TotalTokens int `json:"totalTokens"`
}

// StreamEvent is the unit of the normalized output stream. Exactly one
// payload field is populated, matching Type. Consumers observe at most
// one terminal event (done or error), always last.
type StreamEvent struct {
	Type     EventType
	Content  string
	Element  *UIElement
	Err      string
	Metadata *StreamMetadata
}

// TextEvent builds a text event.
func TextEvent(content string) StreamEvent {
	return StreamEvent{Type: EventText, Content: content}
}

// AGUIEvent builds an event carrying one UI element.
func AGUIEvent(el UIElement) StreamEvent {
	return StreamEvent{Type: EventAGUI, Element: &el}
}

// ErrorEvent builds the terminal error event.
func ErrorEvent(msg string) StreamEvent {
	return StreamEvent{Type: EventError, Err: msg}
}

// DoneEvent builds the terminal done event.
func DoneEvent(totalTokens int) StreamEvent {
	return StreamEvent{Type: EventDone, Metadata: &StreamMetadata{TotalTokens: totalTokens}}
}

// Terminal reports whether no further events may follow this one.
func (e StreamEvent) Terminal() bool {
	return e.Type == EventDone || e.Type == EventError
}

// MarshalJSON emits the discriminated wire record, one payload field per
// event: {"type":"text","content":...}, {"type":"agui","agui":{...}},
// {"type":"error","error":...}, {"type":"done","metadata":{...}}.
func (e StreamEvent) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case EventText:
		return json.Marshal(struct {
			Type    EventType `json:"type"`
			Content string    `json:"content"`
		}{e.Type, e.Content})
	case EventAGUI:
		return json.Marshal(struct {
			Type EventType  `json:"type"`
			AGUI *UIElement `json:"agui"`
		}{e.Type, e.Element})
	case EventError:
		return json.Marshal(struct {
			Type  EventType `json:"type"`
			Error string    `json:"error"`
		}{e.Type, e.Err})
	case EventDone:
		return json.Marshal(struct {
			Type     EventType       `json:"type"`
			Metadata *StreamMetadata `json:"metadata"`
		}{e.Type, e.Metadata})
	default:
		return nil, fmt.Errorf("unknown stream event type: %q", e.Type)
	}
}

// Fragment is one raw increment from a provider transport. Delta carries
// the textual piece; TotalTokens, when positive, is the latest usage
// total (last write wins); Done marks the provider's own end-of-turn;
// Err reports a mid-stream transport failure.
type Fragment struct {
	Delta       string
	TotalTokens int
	Done        bool
	Err         error
}

// Stream is a lazy, finite, single-consumption sequence of StreamEvents.
// The underlying transport is not replayable, so a second call to Events
// fails with ErrStreamConsumed.
type Stream struct {
	mu       sync.Mutex
	events   <-chan StreamEvent
	consumed bool
}

// NewStream wraps an event channel produced by the streaming aggregator.
func NewStream(events <-chan StreamEvent) *Stream {
	return &Stream{events: events}
}

// Events hands out the event channel exactly once.
func (s *Stream) Events() (<-chan StreamEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consumed {
		return nil, ErrStreamConsumed
	}
	s.consumed = true
	return s.events, nil
}
