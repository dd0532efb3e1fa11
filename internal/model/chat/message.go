package chat

import (
	"time"

	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

// Message persists individual turns. User messages carry the emotion
// reading taken from them; assistant messages carry the assessment that
// shaped the reply.
type Message struct {
	ID                   string                          `json:"id"`
	ConversationID       string                          `json:"conversationId"`
	Role                 companion.Role                  `json:"role"`
	Content              string                          `json:"content"`
	Emotion              *companion.EmotionResult        `json:"emotion,omitempty"`
	PsychologyAssessment *companion.PsychologyAssessment `json:"psychologyAssessment,omitempty"`
	CreatedAt            time.Time                       `json:"createdAt"`
}

// Turn strips the message down to what the engine reads as history.
func (m Message) Turn() companion.Turn {
	return companion.Turn{Role: m.Role, Content: m.Content}
}
