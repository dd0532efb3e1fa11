package stream

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
	chatService "github.com/zhouzirui/z-companion/backend/internal/service/chat"
	"github.com/zhouzirui/z-companion/backend/pkg/utils"
)

// SSE event names, in the order a successful turn emits them.
const (
	EventStart      = "start"
	EventEmotion    = "emotion"
	EventAssessment = "assessment"
	EventMessage    = "message"
	EventEnd        = "end"
	EventError      = "error"
)

// Handler streams a stored-conversation turn as Server-Sent Events.
type Handler struct {
	chatSvc *chatService.Service
	logger  *zap.Logger
}

// New creates a new stream handler
func New(chatSvc *chatService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{chatSvc: chatSvc, logger: logger}
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	ConversationID string `json:"conversationId,omitempty"`
	Content        any    `json:"content,omitempty"`
	Finished       bool   `json:"finished,omitempty"`
	Error          string `json:"error,omitempty"`
}

// RegisterRoutes 注册流式对话路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{conversationID}", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	userMessage := r.URL.Query().Get("message")
	if userMessage == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	if _, err := h.chatSvc.GetConversation(r.Context(), conversationID); err != nil {
		if errors.Is(err, chatService.ErrConversationNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.HandleStreamRequest(r.Context(), w, flusher, conversationID, userMessage); err != nil {
		h.logger.Warn("stream turn failed", zap.String("conversation_id", conversationID), zap.Error(err))
	}
}

// HandleStreamRequest runs one turn and writes it out as a sequence of
// events. Once headers are sent, failures are reported as an error event.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, conversationID, userMessage string) error {
	utils.SetupSSEHeaders(w)

	utils.SendSSEEvent(w, flusher, EventStart, StreamResponse{ConversationID: conversationID})

	out, err := h.chatSvc.Turn(ctx, conversationID, userMessage, nil)
	if err != nil {
		utils.SendSSEEvent(w, flusher, EventError, StreamResponse{
			ConversationID: conversationID,
			Error:          "failed to generate response",
		})
		return err
	}

	h.sendTurn(w, flusher, conversationID, out)
	h.logger.Debug("stream turn completed", zap.String("conversation_id", conversationID))
	return nil
}

func (h *Handler) sendTurn(w http.ResponseWriter, flusher http.Flusher, conversationID string, out companion.ResponseOutput) {
	utils.SendSSEEvent(w, flusher, EventEmotion, StreamResponse{
		ConversationID: conversationID,
		Content:        out.EmotionAnalysis,
	})
	utils.SendSSEEvent(w, flusher, EventAssessment, StreamResponse{
		ConversationID: conversationID,
		Content:        out.PsychologyAssessment,
	})
	utils.SendSSEEvent(w, flusher, EventMessage, StreamResponse{
		ConversationID: conversationID,
		Content:        out.Response,
	})
	utils.SendSSEEvent(w, flusher, EventEnd, StreamResponse{
		ConversationID: conversationID,
		Finished:       true,
	})
}
