package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/z-companion/backend/internal/model/chat"
	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
	chatservice "github.com/zhouzirui/z-companion/backend/internal/service/chat"
)

// Malformed ids are rejected before any query, so no database is needed.
func TestMalformedConversationIDIsNotFound(t *testing.T) {
	store := NewPostgresStore(nil)
	ctx := context.Background()

	for _, id := range []string{"missing", "", "1234"} {
		_, err := store.GetConversation(ctx, id)
		require.ErrorIs(t, err, chatservice.ErrConversationNotFound, id)

		_, err = store.LoadTranscript(ctx, id)
		assert.ErrorIs(t, err, chatservice.ErrConversationNotFound, id)

		_, err = store.RecentEmotionalStates(ctx, id, 10)
		assert.ErrorIs(t, err, chatservice.ErrConversationNotFound, id)

		_, err = store.SaveMessage(ctx, chat.Message{ConversationID: id, Role: companion.RoleUser, Content: "hi"})
		assert.ErrorIs(t, err, chatservice.ErrConversationNotFound, id)

		_, err = store.SaveEmotionalState(ctx, chat.EmotionalState{ConversationID: id})
		assert.ErrorIs(t, err, chatservice.ErrConversationNotFound, id)
	}
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("7b0e7a43-0000-4000-8000-000000000002"))
	assert.False(t, validID("not-a-uuid"))
}
