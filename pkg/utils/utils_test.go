package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondError(t *testing.T) {
	resp := httptest.NewRecorder()
	RespondError(resp, http.StatusInternalServerError, "boom")

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if body := strings.TrimSpace(resp.Body.String()); body != `{"error":"boom"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestSendSSEEvent(t *testing.T) {
	resp := httptest.NewRecorder()
	SetupSSEHeaders(resp)
	SendSSEEvent(resp, resp, "emotion", map[string]string{"primaryEmotion": "fear"})

	want := "event: emotion\ndata: {\"primaryEmotion\":\"fear\"}\n\n"
	if resp.Body.String() != want {
		t.Fatalf("unexpected frame %q", resp.Body.String())
	}
	if !resp.Flushed {
		t.Fatal("expected flush")
	}
}
