package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/model"
)

// Session represents a chat session
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one persisted chat message. Elements holds the AGUI
// payload of assistant replies; user messages leave it empty.
type Message struct {
	ID          string            `json:"id"`
	SessionID   string            `json:"session_id"`
	Role        model.Role        `json:"role"`
	Content     string            `json:"content"`
	Elements    []model.UIElement `json:"agui,omitempty"`
	TotalTokens int               `json:"total_tokens,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ErrSessionNotFound is returned when a session ID has no row.
var ErrSessionNotFound = fmt.Errorf("session not found")

// CreateSession creates a new session. An empty name gets a generated
// placeholder; callers usually rename once the first user message is
// known (see GenerateSessionName).
func (s *Store) CreateSession(ctx context.Context, name, modelName string) (*Session, error) {
	now := time.Now().UTC()
	session := &Session{
		ID:        uuid.New().String(),
		Name:      name,
		Model:     modelName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if session.Name == "" {
		session.Name = GenerateSessionName("")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, name, model, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.Name, session.Model, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// GetSession loads a single session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	var session Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, model, created_at, updated_at FROM sessions WHERE id = ?`, id).
		Scan(&session.ID, &session.Name, &session.Model, &session.CreatedAt, &session.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}

// ListSessions returns all sessions, newest activity first.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, model, created_at, updated_at FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var session Session
		if err := rows.Scan(&session.ID, &session.Name, &session.Model,
			&session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// RenameSession updates the name of a session
func (s *Store) RenameSession(ctx context.Context, id, newName string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET name = ?, updated_at = ? WHERE id = ?`,
		newName, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to rename session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteSession removes a session and its messages.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return tx.Commit()
}

// AppendMessage stores msg under its session and bumps the session's
// update time. The message ID is generated when empty.
func (s *Store) AppendMessage(ctx context.Context, msg *Message) error {
	if msg.SessionID == "" {
		return fmt.Errorf("message has no session ID")
	}
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	elements := msg.Elements
	if elements == nil {
		elements = []model.UIElement{}
	}
	agui, err := json.Marshal(elements)
	if err != nil {
		return fmt.Errorf("failed to marshal elements: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, session_id, role, content, agui, total_tokens, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, string(msg.Role), msg.Content, string(agui),
		msg.TotalTokens, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ? WHERE id = ?`,
		time.Now().UTC(), msg.SessionID)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	return tx.Commit()
}

// Messages returns a session's messages in insertion order.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, agui, total_tokens, created_at
		 FROM messages WHERE session_id = ? ORDER BY created_at, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var (
			msg  Message
			role string
			agui string
		)
		if err := rows.Scan(&msg.ID, &msg.SessionID, &role, &msg.Content,
			&agui, &msg.TotalTokens, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Role = model.Role(role)
		if err := json.Unmarshal([]byte(agui), &msg.Elements); err != nil {
			// Recorded payloads are written by us; a bad row degrades
			// to the text content only.
			msg.Elements = []model.UIElement{}
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// History converts a session's stored messages into the provider
// message shape, oldest first.
func (s *Store) History(ctx context.Context, sessionID string) ([]model.Message, error) {
	stored, err := s.Messages(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	history := make([]model.Message, 0, len(stored))
	for _, msg := range stored {
		history = append(history, model.Message{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.CreatedAt,
		})
	}
	return history, nil
}

// GenerateSessionName generates a session name from the first user message
func GenerateSessionName(firstMessage string) string {
	if firstMessage == "" {
		return fmt.Sprintf("Session %s", time.Now().Format("Jan 2, 3:04 PM"))
	}

	// Take first 30 characters
	name := firstMessage
	if len(name) > 30 {
		name = name[:30] + "..."
	}

	// Remove newlines
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Sprintf("Session %s", time.Now().Format("Jan 2, 3:04 PM"))
	}

	return name
}
