// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"time"
)

// MaxMessages is the maximum number of messages to keep in conversation
// history. When exceeded, the oldest messages are pruned to prevent
// unbounded memory growth.
const MaxMessages = 1000

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat history with metadata.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []*Message `json:"messages"`
}

// ConversationMeta contains metadata for listing conversations.
type ConversationMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// NewConversation creates a new conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        NewConversationID(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message, refreshes the title, and prunes history.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTitle()
	c.pruneOldMessages()
}

// AddUserMessage creates and adds a typed user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddVoiceMessage creates and adds a voice-captured user message.
func (c *Conversation) AddVoiceMessage(content string) *Message {
	msg := NewVoiceMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and adds an assistant reply.
func (c *Conversation) AddAssistantMessage(content string) *Message {
	msg := NewAssistantMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddSystemMessage creates and adds a system message.
func (c *Conversation) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	c.AddMessage(msg)
	return msg
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastAssistantMessage returns the most recent assistant message, or nil.
func (c *Conversation) LastAssistantMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i]
		}
	}
	return nil
}

// IsEmpty returns true when the conversation holds no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// pruneOldMessages drops the oldest messages past MaxMessages.
func (c *Conversation) pruneOldMessages() {
	if len(c.Messages) <= MaxMessages {
		return
	}
	excess := len(c.Messages) - MaxMessages
	c.Messages = append([]*Message(nil), c.Messages[excess:]...)
}

// updateTitle derives a title from the first user message if unset.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	c.Title = c.AutoTitle()
}

// AutoTitle builds a display title from the first user message, truncated to
// 50 runes with newlines flattened.
func (c *Conversation) AutoTitle() string {
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && msg.Content != "" {
			title := msg.Content
			runes := []rune(title)
			if len(runes) > 50 {
				title = string(runes[:47]) + "..."
			}
			title = strings.ReplaceAll(title, "\n", " ")
			title = strings.ReplaceAll(title, "\r", "")
			return title
		}
	}
	return "New conversation"
}

// =============================================================================
// COPY AND METADATA
// =============================================================================

// Clone returns a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	clone := *c
	clone.Messages = make([]*Message, len(c.Messages))
	for i, msg := range c.Messages {
		m := *msg
		clone.Messages[i] = &m
	}
	return &clone
}

// Meta returns the listing metadata for this conversation.
func (c *Conversation) Meta() ConversationMeta {
	return ConversationMeta{
		ID:           c.ID,
		Title:        c.Title,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		MessageCount: len(c.Messages),
	}
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown renders the conversation as Markdown with role labels and
// timestamps.
func (c *Conversation) ExportMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# " + c.Title + "\n\n")
	sb.WriteString("Created: " + c.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range c.Messages {
		label := "**" + msg.Role.DisplayName() + "**"
		if msg.Voice {
			label += " (voice)"
		}
		sb.WriteString(label + " (" + msg.Timestamp.Format("15:04") + "):\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}

// ExportJSON renders the conversation as indented JSON, the same shape the
// store persists.
func (c *Conversation) ExportJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
