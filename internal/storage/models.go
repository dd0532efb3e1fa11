package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zhouzirui/z-companion/backend/internal/model/chat"
	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

// conversationModel maps to the conversations table.
type conversationModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	UserID    string `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (conversationModel) TableName() string {
	return "conversations"
}

func (m conversationModel) toConversation() chat.Conversation {
	return chat.Conversation{
		ID:        m.ID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// messageModel maps to the messages table. Emotion and assessment are
// stored as JSON documents.
type messageModel struct {
	ID                   string `gorm:"primaryKey;type:uuid"`
	ConversationID       string `gorm:"index;type:uuid;not null"`
	Role                 string `gorm:"not null"`
	Content              string `gorm:"not null"`
	Emotion              []byte `gorm:"type:jsonb"`
	PsychologyAssessment []byte `gorm:"type:jsonb"`
	CreatedAt            time.Time
}

func (messageModel) TableName() string {
	return "messages"
}

func messageFromChat(m chat.Message) (messageModel, error) {
	record := messageModel{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
	if m.Emotion != nil {
		raw, err := json.Marshal(m.Emotion)
		if err != nil {
			return messageModel{}, fmt.Errorf("failed to encode message emotion: %w", err)
		}
		record.Emotion = raw
	}
	if m.PsychologyAssessment != nil {
		raw, err := json.Marshal(m.PsychologyAssessment)
		if err != nil {
			return messageModel{}, fmt.Errorf("failed to encode message assessment: %w", err)
		}
		record.PsychologyAssessment = raw
	}
	return record, nil
}

func (m messageModel) toChat() (chat.Message, error) {
	message := chat.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           companion.Role(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
	if len(m.Emotion) > 0 {
		var result companion.EmotionResult
		if err := json.Unmarshal(m.Emotion, &result); err != nil {
			return chat.Message{}, fmt.Errorf("failed to decode emotion of message %s: %w", m.ID, err)
		}
		message.Emotion = &result
	}
	if len(m.PsychologyAssessment) > 0 {
		var assessment companion.PsychologyAssessment
		if err := json.Unmarshal(m.PsychologyAssessment, &assessment); err != nil {
			return chat.Message{}, fmt.Errorf("failed to decode assessment of message %s: %w", m.ID, err)
		}
		message.PsychologyAssessment = &assessment
	}
	return message, nil
}

// emotionalStateModel maps to the emotional_states table.
type emotionalStateModel struct {
	ID               string `gorm:"primaryKey;type:uuid"`
	ConversationID   string `gorm:"index:idx_emotional_states_conversation_created;type:uuid;not null"`
	MessageID        string `gorm:"type:uuid"`
	Emotion          string `gorm:"not null"`
	Intensity        float64
	DetectedEmotions []byte `gorm:"type:jsonb"`
	Context          string
	CreatedAt        time.Time `gorm:"index:idx_emotional_states_conversation_created"`
}

func (emotionalStateModel) TableName() string {
	return "emotional_states"
}

func emotionalStateFromChat(s chat.EmotionalState) (emotionalStateModel, error) {
	detected, err := json.Marshal(s.DetectedEmotions)
	if err != nil {
		return emotionalStateModel{}, fmt.Errorf("failed to encode detected emotions: %w", err)
	}
	return emotionalStateModel{
		ID:               s.ID,
		ConversationID:   s.ConversationID,
		MessageID:        s.MessageID,
		Emotion:          string(s.Emotion),
		Intensity:        s.Intensity,
		DetectedEmotions: detected,
		Context:          string(s.Context),
		CreatedAt:        s.CreatedAt,
	}, nil
}

func (m emotionalStateModel) toChat() (chat.EmotionalState, error) {
	var detected companion.Scores
	if len(m.DetectedEmotions) > 0 {
		if err := json.Unmarshal(m.DetectedEmotions, &detected); err != nil {
			return chat.EmotionalState{}, fmt.Errorf("failed to decode detected emotions of state %s: %w", m.ID, err)
		}
	}
	return chat.EmotionalState{
		ID:               m.ID,
		ConversationID:   m.ConversationID,
		MessageID:        m.MessageID,
		Emotion:          companion.Emotion(m.Emotion),
		Intensity:        m.Intensity,
		DetectedEmotions: detected,
		Context:          companion.Context(m.Context),
		CreatedAt:        m.CreatedAt,
	}, nil
}
