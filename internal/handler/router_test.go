package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/z-companion/backend/internal/metrics"
	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
	chatservice "github.com/zhouzirui/z-companion/backend/internal/service/chat"
	companionsvc "github.com/zhouzirui/z-companion/backend/internal/service/companion"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	observer, err := metrics.NewPrometheusObserver("companion", reg)
	require.NoError(t, err)

	svc := companionsvc.NewService(companionsvc.NewEngine(nil), observer, nil)
	store, err := chatservice.NewMemoryStore(4)
	require.NoError(t, err)

	return NewRouter(Deps{
		Companion: svc,
		Chat:      chatservice.NewService(store, svc, 0, nil),
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
}

func TestPreflight(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/companion", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Body.String())
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Equal(t, "Content-Type, Authorization, X-Client-Info, Apikey", resp.Header().Get("Access-Control-Allow-Headers"))
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
}

func TestCompanionTurnIsCounted(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/companion", bytes.NewBufferString(`{"message":"I am furious"}`))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.True(t, strings.Contains(body, `companion_primary_emotion_total{context="initial",emotion="anger"} 1`), body)
}

func TestCompanionMalformedBody(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/companion", bytes.NewBufferString(`not json`))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), `"error"`)
}

type panickingService struct{}

func (panickingService) Respond(context.Context, companion.TurnInput) (companion.ResponseOutput, error) {
	panic("engine exploded")
}

func (panickingService) RecordFailure(string) {}

func TestCompanionPanicReturnsJSONError(t *testing.T) {
	r := NewRouter(Deps{Companion: panickingService{}})

	req := httptest.NewRequest(http.MethodPost, "/api/companion", bytes.NewBufferString(`{"message":"hi"}`))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"error":"internal error"}`, resp.Body.String())
}
