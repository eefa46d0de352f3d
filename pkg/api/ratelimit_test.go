package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(1), 2, nil)
	defer rl.Stop()

	handler := rl.Middleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	codes := make([]int, 3)
	for i := range codes {
		r := httptest.NewRequest("GET", "/api/v0/conferences", nil)
		r.RemoteAddr = "203.0.113.7:12345"
		w := httptest.NewRecorder()
		handler(w, r)
		codes[i] = w.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request should be limited, got %d", codes[2])
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(1), 1, nil)
	defer rl.Stop()

	handler := rl.Middleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	first := httptest.NewRequest("GET", "/", nil)
	first.RemoteAddr = "203.0.113.7:1000"
	w1 := httptest.NewRecorder()
	handler(w1, first)

	// Different IP gets its own bucket
	second := httptest.NewRequest("GET", "/", nil)
	second.RemoteAddr = "203.0.113.8:1000"
	w2 := httptest.NewRecorder()
	handler(w2, second)

	if w1.Code != http.StatusOK || w2.Code != http.StatusOK {
		t.Errorf("independent IPs should not share a bucket, got %d and %d", w1.Code, w2.Code)
	}
}

func TestRateLimiter_ClientIP(t *testing.T) {
	testCases := []struct {
		name           string
		remoteAddr     string
		xff            string
		trustedProxies []string
		want           string
	}{
		{
			name:       "direct connection, no proxies",
			remoteAddr: "203.0.113.7:1000",
			xff:        "198.51.100.9",
			want:       "203.0.113.7",
		},
		{
			name:           "spoofed XFF from untrusted source ignored",
			remoteAddr:     "203.0.113.7:1000",
			xff:            "198.51.100.9",
			trustedProxies: []string{"10.0.0.1"},
			want:           "203.0.113.7",
		},
		{
			name:           "XFF honored from trusted proxy",
			remoteAddr:     "10.0.0.1:1000",
			xff:            "198.51.100.9",
			trustedProxies: []string{"10.0.0.1"},
			want:           "198.51.100.9",
		},
		{
			name:           "rightmost non-proxy wins",
			remoteAddr:     "10.0.0.1:1000",
			xff:            "198.51.100.9, 198.51.100.10, 10.0.0.2",
			trustedProxies: []string{"10.0.0.1", "10.0.0.2"},
			want:           "198.51.100.10",
		},
		{
			name:           "trusted proxy with empty XFF",
			remoteAddr:     "10.0.0.1:1000",
			trustedProxies: []string{"10.0.0.1"},
			want:           "10.0.0.1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rl := NewRateLimiter(rate.Limit(1), 1, tc.trustedProxies)
			defer rl.Stop()

			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}

			if got := rl.clientIP(r); got != tc.want {
				t.Errorf("clientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}
