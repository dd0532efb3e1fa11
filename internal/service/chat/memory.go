package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zhouzirui/z-companion/backend/internal/model/chat"
)

// DefaultMaxConversations bounds the memory store when no size is given.
const DefaultMaxConversations = 1024

type conversationEntry struct {
	conversation chat.Conversation
	messages     []chat.Message
	states       []chat.EmotionalState
}

// MemoryStore keeps conversations in process. The least recently used
// conversation is dropped once the store is full.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations *lru.Cache[string, *conversationEntry]
	now           func() time.Time
}

// NewMemoryStore bootstraps an in-memory store holding at most
// maxConversations conversations.
func NewMemoryStore(maxConversations int) (*MemoryStore, error) {
	if maxConversations <= 0 {
		maxConversations = DefaultMaxConversations
	}
	cache, err := lru.New[string, *conversationEntry](maxConversations)
	if err != nil {
		return nil, fmt.Errorf("create conversation cache: %w", err)
	}
	return &MemoryStore{
		conversations: cache,
		now:           func() time.Time { return time.Now().UTC() },
	}, nil
}

// CreateConversation provisions a conversation owned by userID.
func (s *MemoryStore) CreateConversation(_ context.Context, userID string) (chat.Conversation, error) {
	if userID == "" {
		return chat.Conversation{}, ErrUserRequired
	}

	now := s.now()
	conversation := chat.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.conversations.Add(conversation.ID, &conversationEntry{
		conversation: conversation,
		messages:     make([]chat.Message, 0, 16),
	})
	s.mu.Unlock()

	return conversation, nil
}

// GetConversation retrieves a conversation by identifier.
func (s *MemoryStore) GetConversation(_ context.Context, conversationID string) (chat.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.conversations.Get(conversationID)
	if !ok {
		return chat.Conversation{}, ErrConversationNotFound
	}
	return entry.conversation, nil
}

// SaveMessage appends a message to the conversation transcript.
func (s *MemoryStore) SaveMessage(_ context.Context, message chat.Message) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.conversations.Get(message.ConversationID)
	if !ok {
		return chat.Message{}, ErrConversationNotFound
	}

	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = s.now()
	}

	entry.messages = append(entry.messages, message)
	entry.conversation.UpdatedAt = message.CreatedAt
	return message, nil
}

// SaveEmotionalState records the emotion reading of a user message.
func (s *MemoryStore) SaveEmotionalState(_ context.Context, state chat.EmotionalState) (chat.EmotionalState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.conversations.Get(state.ConversationID)
	if !ok {
		return chat.EmotionalState{}, ErrConversationNotFound
	}

	if state.ID == "" {
		state.ID = uuid.NewString()
	}
	if state.CreatedAt.IsZero() {
		state.CreatedAt = s.now()
	}

	entry.states = append(entry.states, state)
	return state, nil
}

// LoadTranscript returns stored messages for the conversation, oldest first.
func (s *MemoryStore) LoadTranscript(_ context.Context, conversationID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.conversations.Get(conversationID)
	if !ok {
		return nil, ErrConversationNotFound
	}

	copied := make([]chat.Message, len(entry.messages))
	copy(copied, entry.messages)
	return copied, nil
}

// RecentEmotionalStates returns up to limit states, newest first.
func (s *MemoryStore) RecentEmotionalStates(_ context.Context, conversationID string, limit int) ([]chat.EmotionalState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.conversations.Get(conversationID)
	if !ok {
		return nil, ErrConversationNotFound
	}

	n := len(entry.states)
	if limit > 0 && limit < n {
		n = limit
	}
	recent := make([]chat.EmotionalState, 0, n)
	for i := len(entry.states) - 1; i >= 0 && len(recent) < n; i-- {
		recent = append(recent, entry.states[i])
	}
	return recent, nil
}
