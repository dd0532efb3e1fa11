package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-companion/backend/internal/handler/companion"
	"github.com/zhouzirui/z-companion/backend/internal/handler/conversation"
	"github.com/zhouzirui/z-companion/backend/internal/handler/realtime"
	"github.com/zhouzirui/z-companion/backend/internal/handler/stream"
	middlewarePkg "github.com/zhouzirui/z-companion/backend/internal/middleware"
	chatService "github.com/zhouzirui/z-companion/backend/internal/service/chat"
	"github.com/zhouzirui/z-companion/backend/pkg/utils"
)

// Deps collects what the router wires into handlers. Metrics may be nil to
// leave /metrics unmounted.
type Deps struct {
	Companion companion.TurnService
	Chat      *chatService.Service
	Metrics   http.Handler
	Logger    *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middlewarePkg.Recoverer(logger))
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api", func(api chi.Router) {
		companion.New(deps.Companion, logger).RegisterRoutes(api)

		if deps.Chat != nil {
			conversation.New(deps.Chat).RegisterRoutes(api)
			stream.New(deps.Chat, logger).RegisterRoutes(api)
			realtime.New(deps.Chat, logger).RegisterRoutes(api)
		}
	})

	return r
}
