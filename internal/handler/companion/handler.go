package companion

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
	"github.com/zhouzirui/z-companion/backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// TurnService answers stateless turns.
type TurnService interface {
	Respond(ctx context.Context, in companion.TurnInput) (companion.ResponseOutput, error)
	RecordFailure(stage string)
}

// Handler 无状态陪伴对话的HTTP处理器：调用方自带历史。
type Handler struct {
	svc    TurnService
	logger *zap.Logger
}

// New 创建陪伴对话处理器
func New(svc TurnService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes 注册陪伴对话路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/companion", h.handleRespond)
}

type turnRequest struct {
	Message             *string                   `json:"message"`
	ConversationHistory []companion.Turn          `json:"conversationHistory"`
	EmotionalHistory    []companion.EmotionResult `json:"emotionalHistory"`
	UserProfile         json.RawMessage           `json:"userProfile"`
}

// handleRespond 任何输入或内部错误都以 500 和 {error} 返回，不返回部分结果。
func (h *Handler) handleRespond(w http.ResponseWriter, r *http.Request) {
	var payload turnRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		h.fail(w, "decode", "invalid request body", err)
		return
	}
	if payload.Message == nil {
		h.fail(w, "decode", "message is required", nil)
		return
	}

	out, err := h.svc.Respond(r.Context(), companion.TurnInput{
		Message:             *payload.Message,
		ConversationHistory: payload.ConversationHistory,
		EmotionalHistory:    payload.EmotionalHistory,
		UserProfile:         payload.UserProfile,
	})
	if err != nil {
		h.fail(w, "respond", "failed to generate response", err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, out)
}

func (h *Handler) fail(w http.ResponseWriter, stage, message string, err error) {
	h.svc.RecordFailure(stage)
	h.logger.Warn("companion turn failed", zap.String("stage", stage), zap.Error(err))
	utils.RespondError(w, http.StatusInternalServerError, message)
}
