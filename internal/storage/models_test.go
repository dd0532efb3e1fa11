package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/z-companion/backend/internal/model/chat"
	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

func TestMessageModelRoundTrip(t *testing.T) {
	emotion := companion.EmotionResult{
		PrimaryEmotion:   companion.Fear,
		Intensity:        0.55,
		DetectedEmotions: companion.Scores{{Emotion: companion.Fear, Value: 0.55}, {Emotion: companion.Surprise, Value: 0.25}},
		Context:          companion.ContextShifting,
	}
	in := chat.Message{
		ID:             "7b0e7a43-0000-4000-8000-000000000001",
		ConversationID: "7b0e7a43-0000-4000-8000-000000000002",
		Role:           companion.RoleUser,
		Content:        "I'm worried",
		Emotion:        &emotion,
		CreatedAt:      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	record, err := messageFromChat(in)
	require.NoError(t, err)
	assert.Nil(t, record.PsychologyAssessment)

	out, err := record.toChat()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEmotionalStateModelDropsUnknownTags(t *testing.T) {
	record := emotionalStateModel{
		ID:               "s1",
		Emotion:          "sadness",
		DetectedEmotions: []byte(`{"surprise":0.2,"sadness":0.6,"boredom":0.9}`),
		Context:          "recurring",
	}

	state, err := record.toChat()
	require.NoError(t, err)
	assert.Equal(t, []companion.Emotion{companion.Sadness, companion.Surprise}, state.DetectedEmotions.Keys())
	assert.Equal(t, companion.ContextRecurring, state.Result().Context)
}

func TestEmotionalStateModelRejectsCorruptJSON(t *testing.T) {
	_, err := emotionalStateModel{ID: "s1", DetectedEmotions: []byte(`{`)}.toChat()
	assert.Error(t, err)
}
