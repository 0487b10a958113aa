package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func request(h http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	req.RemoteAddr = remoteAddr
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimitPerClient(t *testing.T) {
	h := RateLimit(2)(okHandler)

	for i := 0; i < 2; i++ {
		if code := request(h, "10.0.0.1:5000"); code != http.StatusOK {
			t.Fatalf("request %d: expected %d, got %d", i, http.StatusOK, code)
		}
	}
	if code := request(h, "10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Errorf("expected %d after burst, got %d", http.StatusTooManyRequests, code)
	}
	if code := request(h, "10.0.0.2:5000"); code != http.StatusOK {
		t.Errorf("other clients should not be limited, got %d", code)
	}
}

func TestIPLimiterEvictsIdleClients(t *testing.T) {
	now := time.Now()
	il := newIPLimiter(1, 1)
	il.now = func() time.Time { return now }

	il.allow("10.0.0.1")
	now = now.Add(idleTTL + time.Second)
	il.allow("10.0.0.2")

	if _, ok := il.clients["10.0.0.1"]; ok {
		t.Error("expected idle client to be evicted")
	}
	if len(il.clients) != 1 {
		t.Errorf("expected 1 tracked client, got %d", len(il.clients))
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	cases := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "no-referrer"},
		{"Cache-Control", "no-store"},
	}
	for _, tc := range cases {
		t.Run(tc.header, func(t *testing.T) {
			if got := rr.Header().Get(tc.header); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
	if rr.Header().Get("Content-Security-Policy") == "" {
		t.Error("expected a Content-Security-Policy header")
	}
}
