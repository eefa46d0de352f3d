package api

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if seen == "" {
		t.Fatal("expected a request ID in the context")
	}
	if got := w.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("response header %q does not match context ID %q", got, seen)
	}
}

func TestRequestID_HonorsValidClientID(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Request-ID", "trace-1234.abc")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if got := w.Header().Get("X-Request-ID"); got != "trace-1234.abc" {
		t.Errorf("expected client ID to be preserved, got %q", got)
	}
}

func TestIsValidRequestID(t *testing.T) {
	testCases := []struct {
		id   string
		want bool
	}{
		{"abc-123_XYZ.9", true},
		{"", false},
		{strings.Repeat("a", 129), false},
		{"has space", false},
		{"newline\n", false},
	}

	for _, tc := range testCases {
		if got := isValidRequestID(tc.id); got != tc.want {
			t.Errorf("isValidRequestID(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("unexpected X-Content-Type-Options: %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("unexpected X-Frame-Options: %q", got)
	}
}

func TestGzipHandler(t *testing.T) {
	payload := strings.Repeat("conference ", 100)
	handler := GzipHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, payload)
	}))

	t.Run("compresses when accepted", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if got := w.Header().Get("Content-Encoding"); got != "gzip" {
			t.Fatalf("expected gzip encoding, got %q", got)
		}
		gr, err := gzip.NewReader(w.Body)
		if err != nil {
			t.Fatalf("invalid gzip body: %v", err)
		}
		decoded, err := io.ReadAll(gr)
		if err != nil {
			t.Fatalf("failed to decompress: %v", err)
		}
		if string(decoded) != payload {
			t.Error("decompressed body does not match payload")
		}
	})

	t.Run("passes through otherwise", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		if w.Header().Get("Content-Encoding") == "gzip" {
			t.Error("should not compress without Accept-Encoding")
		}
		if w.Body.String() != payload {
			t.Error("body should pass through unchanged")
		}
	})
}
