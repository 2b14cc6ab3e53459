package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddlewareEnforcesLimit(t *testing.T) {
	mw, err := Middleware("2-M", false)
	if err != nil {
		t.Fatalf("build middleware: %v", err)
	}

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.RemoteAddr = "10.1.2.3:55000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := send(); rec.Code != http.StatusOK {
		t.Fatalf("expected first request allowed, got %d", rec.Code)
	}
	if rec := send(); rec.Code != http.StatusOK {
		t.Fatalf("expected second request allowed, got %d", rec.Code)
	}
	rec := send()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third request, got %d", rec.Code)
	}
	if rec.Header().Get("X-Ratelimit-Limit") == "" {
		t.Fatal("expected rate limit headers on rejection")
	}
}

func TestMiddlewareRejectsMalformedRate(t *testing.T) {
	if _, err := Middleware("not-a-rate", false); err == nil {
		t.Fatal("expected error for malformed rate")
	}
}
