package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Element types the renderer understands. This is a closed set: anything
// outside it is passed through untouched but renderers may ignore it.
const (
	ElementButton = "button"
	ElementTable  = "table"
	ElementForm   = "form"
	ElementCard   = "card"
	ElementList   = "list"
	ElementChart  = "chart"
	ElementText   = "text"
)

// KnownElementType reports whether t belongs to the closed element set.
func KnownElementType(t string) bool {
	switch t {
	case ElementButton, ElementTable, ElementForm, ElementCard, ElementList, ElementChart, ElementText:
		return true
	}
	return false
}

// UIElement is a renderer-agnostic description of one interactive or
// data-presentation widget (the "agui" wire contract). Props carries
// type-specific data; Children is only used by composite types.
type UIElement struct {
	Type     string         `json:"type"`
	ID       string         `json:"id"`
	Props    map[string]any `json:"props,omitempty"`
	Children []UIElement    `json:"children,omitempty"`
}

// Envelope is the structured form of one model response: narrative text
// plus zero or more UI elements. Content is never empty after parsing
// (the parser falls back to the raw input), and Elements is never nil.
type Envelope struct {
	Content  string      `json:"content"`
	Elements []UIElement `json:"agui"`
}

// NewElementID generates an element identity that is stable for the
// lifetime of one rendered message. The millisecond component plus a
// random suffix keeps regenerated IDs from colliding within an envelope.
func NewElementID() string {
	return fmt.Sprintf("agui-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
