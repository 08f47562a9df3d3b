package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fkalasek/topbot/internal/models"
)

// Storage keys. The names predate this program and stay for data
// compatibility with existing installs.
const (
	conversationsKey = "topbotConversations"
	currentKey       = "topbotCurrentConversation"
)

// ConversationStore keeps the conversation list in memory and writes every
// mutation through to the KV backend. All read methods return deep copies,
// so callers can never mutate shared state.
type ConversationStore struct {
	mu     sync.RWMutex
	kv     KV
	logger *slog.Logger

	conversations []models.Conversation
	activeID      string
}

// NewConversationStore loads persisted state from kv. A missing key means a
// fresh install; corrupt JSON is logged and treated the same way.
func NewConversationStore(kv KV, logger *slog.Logger) *ConversationStore {
	s := &ConversationStore{kv: kv, logger: logger}

	if raw, err := kv.Get(conversationsKey); err == nil {
		if err := json.Unmarshal([]byte(raw), &s.conversations); err != nil {
			logger.Warn("discarding unreadable conversation history", "error", err)
			s.conversations = nil
		}
	} else if !errors.Is(err, ErrKeyNotFound) {
		logger.Warn("loading conversations failed", "error", err)
	}

	if id, err := kv.Get(currentKey); err == nil {
		if s.find(id) != nil {
			s.activeID = id
		}
	}
	return s
}

// Conversations returns a snapshot of all conversations.
func (s *ConversationStore) Conversations() []models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Conversation, len(s.conversations))
	for i, c := range s.conversations {
		out[i] = copyConversation(c)
	}
	return out
}

// Active returns a snapshot of the active conversation, if any.
func (s *ConversationStore) Active() (models.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c := s.find(s.activeID); c != nil {
		return copyConversation(*c), true
	}
	return models.Conversation{}, false
}

// ActiveID returns the id of the active conversation, or "".
func (s *ConversationStore) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Create starts a new empty conversation and makes it active.
func (s *ConversationStore) Create() models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := models.Conversation{
		ID:          uuid.NewString(),
		Title:       models.DefaultTitle,
		LastUpdated: time.Now(),
	}
	s.conversations = append(s.conversations, c)
	s.activeID = c.ID
	s.persist()
	return copyConversation(c)
}

// SetActive switches the active conversation. Unknown ids are rejected.
func (s *ConversationStore) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(id) == nil {
		return fmt.Errorf("conversation %s not found", id)
	}
	s.activeID = id
	s.persist()
	return nil
}

// AppendMessage adds a message to the conversation and refreshes its title
// and timestamp.
func (s *ConversationStore) AppendMessage(convID string, msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.find(convID)
	if c == nil {
		return fmt.Errorf("conversation %s not found", convID)
	}
	c.Messages = append(c.Messages, msg)
	s.refresh(c)
	s.persist()
	return nil
}

// UpdateMessage replaces the message with the same id. Late arrivals whose
// conversation or message has meanwhile disappeared are a silent no-op; the
// return value reports whether anything changed.
func (s *ConversationStore) UpdateMessage(convID string, msg models.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.find(convID)
	if c == nil {
		return false
	}
	for i := range c.Messages {
		if c.Messages[i].ID == msg.ID {
			c.Messages[i] = msg
			s.refresh(c)
			s.persist()
			return true
		}
	}
	return false
}

// Clear removes all messages from the conversation but keeps it selected.
func (s *ConversationStore) Clear(convID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.find(convID)
	if c == nil {
		return fmt.Errorf("conversation %s not found", convID)
	}
	c.Messages = nil
	s.refresh(c)
	s.persist()
	return nil
}

// Delete removes the conversation entirely. Deleting the active conversation
// leaves no active selection.
func (s *ConversationStore) Delete(convID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.conversations {
		if s.conversations[i].ID == convID {
			s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)
			if s.activeID == convID {
				s.activeID = ""
			}
			s.persist()
			return nil
		}
	}
	return fmt.Errorf("conversation %s not found", convID)
}

func (s *ConversationStore) find(id string) *models.Conversation {
	if id == "" {
		return nil
	}
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			return &s.conversations[i]
		}
	}
	return nil
}

// refresh recomputes the derived fields after any message-list mutation.
func (s *ConversationStore) refresh(c *models.Conversation) {
	c.LastUpdated = time.Now()
	c.Title = models.DeriveTitle(c.Messages)
}

// persist writes both keys. Callers hold the write lock.
func (s *ConversationStore) persist() {
	raw, err := json.Marshal(s.conversations)
	if err != nil {
		s.logger.Error("marshaling conversations failed", "error", err)
		return
	}
	if err := s.kv.Set(conversationsKey, string(raw)); err != nil {
		s.logger.Error("saving conversations failed", "error", err)
	}
	if err := s.kv.Set(currentKey, s.activeID); err != nil {
		s.logger.Error("saving active conversation failed", "error", err)
	}
}

func copyConversation(c models.Conversation) models.Conversation {
	out := c
	out.Messages = make([]models.Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}
