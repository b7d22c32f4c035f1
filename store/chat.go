package store

import (
	"strings"
)

// Role tags a message with its speaker. The set is closed; anything else is
// rejected at the store boundary.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleLog       Role = "log"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem, RoleLog:
		return true
	}
	return false
}

// Message is one turn of a chat. Once its chat has been saved, a message is
// immutable except for the last assistant message of an in-flight exchange,
// whose content grows until the stream ends.
type Message struct {
	Role     Role
	Content  string
	Sequence int

	// persisted marks messages already written to the database, so that an
	// incremental save never relies on position counting.
	persisted bool
}

// Persisted reports whether this message has been committed to the database.
func (m *Message) Persisted() bool { return m.persisted }

// Chat holds one conversation: ordered messages plus metadata. A zero ID means
// the chat has never been saved.
type Chat struct {
	ID                int64
	Title             string
	Messages          []*Message
	CreationTimestamp int64
	UpdateTimestamp   int64
}

// NewChat instantiates a new unsaved chat.
func NewChat() *Chat {
	return &Chat{}
}

// Saved reports whether the chat has been assigned an id by the store.
func (c *Chat) Saved() bool { return c.ID != 0 }

// Append adds a message with the next free sequence number and returns it.
func (c *Chat) Append(role Role, content string) *Message {
	sequence := 0
	if n := len(c.Messages); n > 0 {
		sequence = c.Messages[n-1].Sequence + 1
	}
	message := &Message{Role: role, Content: content, Sequence: sequence}
	c.Messages = append(c.Messages, message)
	return message
}

// LastMessage returns the most recent message, or nil for an empty chat.
func (c *Chat) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

const titleMaxLength = 64

// deriveTitle builds a chat title from the first user message. Whitespace is
// collapsed and the result truncated; the title is computed once, at first
// save, and never recomputed.
func deriveTitle(messages []*Message) string {
	for _, message := range messages {
		if message.Role != RoleUser {
			continue
		}
		title := strings.Join(strings.Fields(message.Content), " ")
		if runes := []rune(title); len(runes) > titleMaxLength {
			title = string(runes[:titleMaxLength-3]) + "..."
		}
		return title
	}
	return "untitled"
}
