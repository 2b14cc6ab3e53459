package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.RemoteAddr = "127.0.0.1:4000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("X-Real-IP", "198.51.100.2")
	if got := ClientIP(req); got != "203.0.113.7" {
		t.Fatalf("expected first forwarded hop, got %q", got)
	}
}

func TestClientIPFallsBackToRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.RemoteAddr = "127.0.0.1:4000"
	req.Header.Set("X-Real-IP", "198.51.100.2")
	if got := ClientIP(req); got != "198.51.100.2" {
		t.Fatalf("expected X-Real-IP, got %q", got)
	}
}

func TestClientIPStripsPortFromRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.RemoteAddr = "192.0.2.9:55000"
	if got := ClientIP(req); got != "192.0.2.9" {
		t.Fatalf("expected remote host, got %q", got)
	}
	if got := ClientIP(nil); got != "" {
		t.Fatalf("expected empty for nil request, got %q", got)
	}
}

func TestParsePagination(t *testing.T) {
	values := func(page, limit string) map[string][]string {
		v := map[string][]string{}
		if page != "" {
			v["page"] = []string{page}
		}
		if limit != "" {
			v["limit"] = []string{limit}
		}
		return v
	}

	page, limit, err := ParsePagination(values("", ""), 20, 100)
	if err != nil || page != 1 || limit != 20 {
		t.Fatalf("defaults: page=%d limit=%d err=%v", page, limit, err)
	}

	page, limit, err = ParsePagination(values("3", "50"), 20, 100)
	if err != nil || page != 3 || limit != 50 {
		t.Fatalf("explicit: page=%d limit=%d err=%v", page, limit, err)
	}

	// limit is capped, never rejected, when above the maximum.
	_, limit, err = ParsePagination(values("", "500"), 20, 100)
	if err != nil || limit != 100 {
		t.Fatalf("cap: limit=%d err=%v", limit, err)
	}

	for _, bad := range [][2]string{{"0", ""}, {"-1", ""}, {"abc", ""}, {"", "0"}, {"", "nope"}} {
		_, _, err := ParsePagination(values(bad[0], bad[1]), 20, 100)
		if err == nil {
			t.Fatalf("expected error for page=%q limit=%q", bad[0], bad[1])
		}
		if !IsAppError(err) {
			t.Fatalf("expected AppError for page=%q limit=%q, got %T", bad[0], bad[1], err)
		}
	}
}
