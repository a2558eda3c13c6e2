package model

import "time"

// Role identifies who authored a message.
type Role string

// Message roles understood by every provider adapter.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents one chat message in a conversation.
// An ordered slice of Messages forms the conversation history; the
// provider layer consumes it read-only.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Usage holds normalized token counts. Providers report these under
// different field names; adapters translate into this one shape.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
