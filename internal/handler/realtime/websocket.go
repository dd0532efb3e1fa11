package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	chatservice "github.com/zhouzirui/z-companion/backend/internal/service/chat"
	"github.com/zhouzirui/z-companion/backend/pkg/utils"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	writeWait  = 10 * time.Second
	maxMessage = 64 << 10
)

// Message types carried in the envelope.
const (
	TypeMessage  = "message"
	TypeResponse = "response"
	TypeInfo     = "info"
	TypeError    = "error"
)

// Handler 实时对话的WebSocket处理器
type Handler struct {
	chatSvc  *chatservice.Service
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// New 创建WebSocket处理器
func New(chatSvc *chatservice.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatSvc: chatSvc,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/realtime/{conversationID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// TextMessage 文本消息
type TextMessage struct {
	Text        string          `json:"text"`
	UserProfile json.RawMessage `json:"userProfile,omitempty"`
}

type outgoingMessage struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId"`
	Data           any    `json:"data,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	if _, err := h.chatSvc.GetConversation(r.Context(), conversationID); err != nil {
		if errors.Is(err, chatservice.ErrConversationNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadLimit(maxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go h.pingLoop(ctx, conn)

	h.sendInfo(conn, conversationID, "connected")

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", zap.String("conversation_id", conversationID), zap.Error(err))
			}
			return
		}

		h.handleMessage(ctx, conn, conversationID, msg)
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, conversationID string, msg inboundMessage) {
	switch msg.Type {
	case TypeMessage:
		var text TextMessage
		if err := json.Unmarshal(msg.Data, &text); err != nil {
			h.sendError(conn, conversationID, "invalid message payload")
			return
		}
		if text.Text == "" {
			h.sendError(conn, conversationID, "text is required")
			return
		}

		out, err := h.chatSvc.Turn(ctx, conversationID, text.Text, text.UserProfile)
		if err != nil {
			h.logger.Warn("realtime turn failed", zap.String("conversation_id", conversationID), zap.Error(err))
			h.sendError(conn, conversationID, "failed to generate response")
			return
		}
		h.send(conn, outgoingMessage{Type: TypeResponse, ConversationID: conversationID, Data: out})
	default:
		h.sendError(conn, conversationID, "unsupported message type: "+msg.Type)
	}
}

// pingLoop uses WriteControl, which is safe alongside the reader's writes.
func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) sendInfo(conn *websocket.Conn, conversationID, info string) {
	h.send(conn, outgoingMessage{Type: TypeInfo, ConversationID: conversationID, Data: map[string]string{"message": info}})
}

func (h *Handler) sendError(conn *websocket.Conn, conversationID, message string) {
	h.send(conn, outgoingMessage{Type: TypeError, ConversationID: conversationID, Data: map[string]string{"error": message}})
}

func (h *Handler) send(conn *websocket.Conn, msg outgoingMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Debug("websocket write failed", zap.String("type", msg.Type), zap.Error(err))
	}
}
