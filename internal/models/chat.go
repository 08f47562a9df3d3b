// Package models defines the chat domain types shared across the application.
package models

import (
	"strconv"
	"sync/atomic"
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message. While a provider call is in flight the
// conversation carries exactly one message with IsTyping set; it is replaced
// in place (same ID) once the call settles.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	IsTyping  bool      `json:"isTyping,omitempty"`
	IsGuide   bool      `json:"isGuide,omitempty"`
}

// Conversation is an ordered list of messages with a derived title.
type Conversation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Messages    []Message `json:"messages"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// messageSeq disambiguates ids created within the same millisecond.
var messageSeq atomic.Int64

// NewMessageID returns a unique, time-derived message id.
func NewMessageID() string {
	seq := messageSeq.Add(1)
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + strconv.FormatInt(seq, 10)
}

// NewUserMessage creates a user message with a fresh id and timestamp.
func NewUserMessage(content string) Message {
	return Message{
		ID:        NewMessageID(),
		Content:   content,
		Role:      RoleUser,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates a completed assistant message.
func NewAssistantMessage(content string) Message {
	return Message{
		ID:        NewMessageID(),
		Content:   content,
		Role:      RoleAssistant,
		Timestamp: time.Now(),
	}
}

// NewTypingMessage creates the in-flight assistant placeholder.
func NewTypingMessage() Message {
	return Message{
		ID:        NewMessageID(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
		IsTyping:  true,
	}
}
