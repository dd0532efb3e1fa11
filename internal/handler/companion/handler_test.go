package companion

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/z-companion/backend/internal/analysis/response"
	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
	companionsvc "github.com/zhouzirui/z-companion/backend/internal/service/companion"
)

func setupRouter() *chi.Mux {
	engine := companionsvc.NewEngine(response.PickerFunc(func(int) int { return 0 }))
	handler := New(companionsvc.NewService(engine, nil, nil), nil)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func post(r http.Handler, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/companion", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRespondFirstTurn(t *testing.T) {
	resp := post(setupRouter(), []byte(`{"message":"I feel a bit sad today","conversationHistory":[],"emotionalHistory":[],"userProfile":null}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out companion.ResponseOutput
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.EmotionAnalysis.PrimaryEmotion != companion.Sadness {
		t.Fatalf("expected sadness, got %s", out.EmotionAnalysis.PrimaryEmotion)
	}
	if out.EmotionAnalysis.Context != companion.ContextInitial {
		t.Fatalf("expected initial context, got %s", out.EmotionAnalysis.Context)
	}
	if out.Response == "" {
		t.Fatal("expected a reply")
	}
}

func TestRespondWireFormat(t *testing.T) {
	resp := post(setupRouter(), []byte(`{"message":"hello"}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &top); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, key := range []string{"response", "emotionAnalysis", "psychologyAssessment"} {
		if _, ok := top[key]; !ok {
			t.Fatalf("missing %s in %s", key, resp.Body.String())
		}
	}

	var assessment map[string]json.RawMessage
	if err := json.Unmarshal(top["psychologyAssessment"], &assessment); err != nil {
		t.Fatalf("decode assessment: %v", err)
	}
	if string(assessment["data_gaps"]) != "[]" {
		t.Fatalf("expected empty data_gaps, got %s", assessment["data_gaps"])
	}
	if string(assessment["identified_concerns"]) != "[]" {
		t.Fatalf("expected empty identified_concerns, got %s", assessment["identified_concerns"])
	}

	var emotion map[string]json.RawMessage
	if err := json.Unmarshal(top["emotionAnalysis"], &emotion); err != nil {
		t.Fatalf("decode emotion: %v", err)
	}
	if string(emotion["detectedEmotions"]) != "{}" {
		t.Fatalf("expected empty detectedEmotions object, got %s", emotion["detectedEmotions"])
	}
}

func TestRespondUsesEmotionalHistory(t *testing.T) {
	body := []byte(`{
		"message": "still sad",
		"conversationHistory": [{"role":"user","content":"I feel sad"},{"role":"assistant","content":"..."}],
		"emotionalHistory": [{"primaryEmotion":"sadness","intensity":0.25,"detectedEmotions":{"sadness":0.25},"context":"initial"}]
	}`)
	resp := post(setupRouter(), body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var out companion.ResponseOutput
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.EmotionAnalysis.Context != companion.ContextRecurring {
		t.Fatalf("expected recurring context, got %s", out.EmotionAnalysis.Context)
	}
}

func TestRespondMalformedBody(t *testing.T) {
	for _, body := range []string{`{`, `{"conversationHistory":[]}`, `{"message":42}`} {
		resp := post(setupRouter(), []byte(body))
		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("body %s: expected 500, got %d", body, resp.Code)
		}
		var out map[string]string
		if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil || out["error"] == "" {
			t.Fatalf("body %s: expected error payload, got %s", body, resp.Body.String())
		}
	}
}
