package chat

import (
	"context"
	"errors"

	"github.com/zhouzirui/z-companion/backend/internal/model/chat"
)

var (
	ErrUserRequired         = errors.New("user id is required")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageRequired      = errors.New("message is required")
)

// Store persists conversations, their messages, and the emotion readings
// taken from user messages.
type Store interface {
	CreateConversation(ctx context.Context, userID string) (chat.Conversation, error)
	GetConversation(ctx context.Context, conversationID string) (chat.Conversation, error)
	// SaveMessage assigns ID and CreatedAt when unset and returns the stored message.
	SaveMessage(ctx context.Context, message chat.Message) (chat.Message, error)
	SaveEmotionalState(ctx context.Context, state chat.EmotionalState) (chat.EmotionalState, error)
	// LoadTranscript returns messages oldest first.
	LoadTranscript(ctx context.Context, conversationID string) ([]chat.Message, error)
	// RecentEmotionalStates returns up to limit states, newest first.
	RecentEmotionalStates(ctx context.Context, conversationID string, limit int) ([]chat.EmotionalState, error)
}
