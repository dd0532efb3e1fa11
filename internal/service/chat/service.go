package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-companion/backend/internal/model/chat"
	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

// DefaultHistoryLimit is how many emotional states are read back per turn.
const DefaultHistoryLimit = 10

// Responder answers a single turn.
type Responder interface {
	Respond(ctx context.Context, in companion.TurnInput) (companion.ResponseOutput, error)
}

// Service runs turns against stored conversations: it loads history from
// the Store, asks the Responder for a reply, and records both sides.
type Service struct {
	store        Store
	responder    Responder
	historyLimit int
	logger       *zap.Logger
}

// NewService wires a Store to a Responder.
func NewService(store Store, responder Responder, historyLimit int, logger *zap.Logger) *Service {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:        store,
		responder:    responder,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// CreateConversation starts a conversation for userID.
func (s *Service) CreateConversation(ctx context.Context, userID string) (chat.Conversation, error) {
	return s.store.CreateConversation(ctx, userID)
}

// GetConversation looks up a conversation.
func (s *Service) GetConversation(ctx context.Context, conversationID string) (chat.Conversation, error) {
	return s.store.GetConversation(ctx, conversationID)
}

// Transcript returns the conversation's messages, oldest first.
func (s *Service) Transcript(ctx context.Context, conversationID string) ([]chat.Message, error) {
	return s.store.LoadTranscript(ctx, conversationID)
}

// Turn answers message within the stored conversation. Failing to record
// the exchange is logged but does not withhold the reply.
func (s *Service) Turn(ctx context.Context, conversationID, message string, profile json.RawMessage) (companion.ResponseOutput, error) {
	if message == "" {
		return companion.ResponseOutput{}, ErrMessageRequired
	}

	input, err := s.buildInput(ctx, conversationID, message, profile)
	if err != nil {
		return companion.ResponseOutput{}, err
	}

	out, err := s.responder.Respond(ctx, input)
	if err != nil {
		return companion.ResponseOutput{}, fmt.Errorf("respond: %w", err)
	}

	s.record(ctx, conversationID, message, out)
	return out, nil
}

func (s *Service) buildInput(ctx context.Context, conversationID, message string, profile json.RawMessage) (companion.TurnInput, error) {
	if _, err := s.store.GetConversation(ctx, conversationID); err != nil {
		return companion.TurnInput{}, err
	}

	transcript, err := s.store.LoadTranscript(ctx, conversationID)
	if err != nil {
		return companion.TurnInput{}, fmt.Errorf("load transcript: %w", err)
	}
	states, err := s.store.RecentEmotionalStates(ctx, conversationID, s.historyLimit)
	if err != nil {
		return companion.TurnInput{}, fmt.Errorf("load emotional states: %w", err)
	}

	turns := make([]companion.Turn, 0, len(transcript))
	for _, m := range transcript {
		turns = append(turns, m.Turn())
	}
	history := make([]companion.EmotionResult, 0, len(states))
	for _, st := range states {
		history = append(history, st.Result())
	}

	return companion.TurnInput{
		Message:             message,
		ConversationHistory: turns,
		EmotionalHistory:    history,
		UserProfile:         profile,
	}, nil
}

func (s *Service) record(ctx context.Context, conversationID, message string, out companion.ResponseOutput) {
	emotionResult := out.EmotionAnalysis
	userMsg, err := s.store.SaveMessage(ctx, chat.Message{
		ConversationID: conversationID,
		Role:           companion.RoleUser,
		Content:        message,
		Emotion:        &emotionResult,
	})
	if err != nil {
		s.logger.Warn("failed to save user message", zap.String("conversation_id", conversationID), zap.Error(err))
	} else {
		state := chat.NewEmotionalState(conversationID, userMsg.ID, emotionResult)
		if _, err := s.store.SaveEmotionalState(ctx, state); err != nil {
			s.logger.Warn("failed to save emotional state", zap.String("conversation_id", conversationID), zap.Error(err))
		}
	}

	assessment := out.PsychologyAssessment
	if _, err := s.store.SaveMessage(ctx, chat.Message{
		ConversationID:       conversationID,
		Role:                 companion.RoleAssistant,
		Content:              out.Response,
		PsychologyAssessment: &assessment,
	}); err != nil {
		s.logger.Warn("failed to save assistant message", zap.String("conversation_id", conversationID), zap.Error(err))
	}
}
