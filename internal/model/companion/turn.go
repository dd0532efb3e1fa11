package companion

import "encoding/json"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one prior message in the conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TurnInput carries everything the engine needs for one reply.
// EmotionalHistory is ordered most recent first. Any slice may be empty.
type TurnInput struct {
	Message             string          `json:"message"`
	ConversationHistory []Turn          `json:"conversationHistory"`
	EmotionalHistory    []EmotionResult `json:"emotionalHistory"`
	UserProfile         json.RawMessage `json:"userProfile,omitempty"`
}

// ResponseOutput is the reply together with the analysis that produced it.
type ResponseOutput struct {
	Response             string               `json:"response"`
	EmotionAnalysis      EmotionResult        `json:"emotionAnalysis"`
	PsychologyAssessment PsychologyAssessment `json:"psychologyAssessment"`
}
