package chat

import (
	"time"

	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

// EmotionalState records the emotion reading of one user message.
type EmotionalState struct {
	ID               string            `json:"id"`
	ConversationID   string            `json:"conversationId"`
	MessageID        string            `json:"messageId"`
	Emotion          companion.Emotion `json:"emotion"`
	Intensity        float64           `json:"intensity"`
	DetectedEmotions companion.Scores  `json:"detectedEmotions"`
	Context          companion.Context `json:"context"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// NewEmotionalState captures result for the given message.
func NewEmotionalState(conversationID, messageID string, result companion.EmotionResult) EmotionalState {
	return EmotionalState{
		ConversationID:   conversationID,
		MessageID:        messageID,
		Emotion:          result.PrimaryEmotion,
		Intensity:        result.Intensity,
		DetectedEmotions: result.DetectedEmotions.Clone(),
		Context:          result.Context,
	}
}

// Result converts the record back into engine history.
func (s EmotionalState) Result() companion.EmotionResult {
	return companion.EmotionResult{
		PrimaryEmotion:   s.Emotion,
		Intensity:        s.Intensity,
		DetectedEmotions: s.DetectedEmotions.Clone(),
		Context:          s.Context,
	}
}
