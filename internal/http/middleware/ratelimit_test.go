package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMessageLimiterAllowsWithinBurst(t *testing.T) {
	ml := NewMessageLimiter(1, 3)
	for i := 0; i < 3; i++ {
		if !ml.Allow("10.0.0.1") {
			t.Fatalf("request %d within burst must be allowed", i+1)
		}
	}
	if ml.Allow("10.0.0.1") {
		t.Fatal("request beyond burst must be rejected")
	}
}

func TestMessageLimiterIsolatesCallers(t *testing.T) {
	ml := NewMessageLimiter(1, 1)
	if !ml.Allow("10.0.0.1") {
		t.Fatal("first client must be allowed")
	}
	if !ml.Allow("10.0.0.2") {
		t.Fatal("second client must have its own bucket")
	}
}

func TestMessageRateLimitRejectsWith429(t *testing.T) {
	mw := MessageRateLimit(0.001, 1)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/conversations/message", nil)
	req.Header.Set("X-Real-Ip", "10.0.0.3")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}
}
