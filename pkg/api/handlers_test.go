package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/confhub/confhub/pkg/config"
	"github.com/confhub/confhub/pkg/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Logger: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
}

func TestEncodeResponse(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v0/health", nil)

	encodeResponse(w, r, map[string]string{"status": "ok"})

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestEncodeResponse_Pretty(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v0/health?pretty=true", nil)

	encodeResponse(w, r, map[string]string{"status": "ok"})

	if !strings.Contains(w.Body.String(), "\n  ") {
		t.Error("expected indented output with pretty=true")
	}
}

func TestEncodeError(t *testing.T) {
	w := httptest.NewRecorder()

	encodeError(w, "Something broke", http.StatusInternalServerError)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "Something broke" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestEncodeValidationErrors(t *testing.T) {
	w := httptest.NewRecorder()

	encodeValidationErrors(w, models.ValidationErrors{
		{Field: "cfp_type", Reason: "can't be blank"},
		{Field: "start_date", Reason: "must be before the end date"},
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}

	var body struct {
		Error  string              `json:"error"`
		Fields []models.FieldError `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Error != "Validation failed" {
		t.Errorf("unexpected error message: %q", body.Error)
	}
	if len(body.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(body.Fields))
	}
	if body.Fields[0].Field != "cfp_type" || body.Fields[0].Reason != "can't be blank" {
		t.Errorf("unexpected first field error: %+v", body.Fields[0])
	}
}

func TestDecodeRequest(t *testing.T) {
	type payload struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name"`
	}

	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "valid",
			body: `{"email":"ada@example.com","name":"Ada"}`,
		},
		{
			name:    "malformed JSON",
			body:    `{"email":`,
			wantErr: "invalid request body",
		},
		{
			name:    "unknown field",
			body:    `{"email":"ada@example.com","surprise":true}`,
			wantErr: "invalid request body",
		},
		{
			name:    "missing required field",
			body:    `{"name":"Ada"}`,
			wantErr: "invalid or missing fields: email",
		},
		{
			name:    "invalid email",
			body:    `{"email":"not-an-email"}`,
			wantErr: "invalid or missing fields: email",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			var dst payload
			err := decodeRequest(r, &dst)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	cfg := testConfig()

	var wg sync.WaitGroup
	wg.Add(1)
	cfg.OnBackgroundDone = wg.Done

	SafeGo(cfg, func() {
		panic("boom")
	})
	wg.Wait()
	// Reaching here means the panic was recovered and the slot released.
}

func TestPathID(t *testing.T) {
	testCases := []struct {
		name   string
		path   string
		prefix string
		want   uint
		ok     bool
	}{
		{"plain id", "/api/v0/cfps/42", "/api/v0/cfps", 42, true},
		{"with sub-path", "/api/v0/conferences/7/cfps", "/api/v0/conferences", 7, true},
		{"missing id", "/api/v0/cfps/", "/api/v0/cfps", 0, false},
		{"non-numeric", "/api/v0/cfps/abc", "/api/v0/cfps", 0, false},
		{"zero", "/api/v0/cfps/0", "/api/v0/cfps", 0, false},
		{"wrong prefix", "/api/v0/users/42", "/api/v0/cfps", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := pathID(tc.path, tc.prefix)
			if ok != tc.ok || got != tc.want {
				t.Errorf("pathID(%q, %q) = (%d, %v), want (%d, %v)", tc.path, tc.prefix, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestParseDateParam(t *testing.T) {
	got, err := parseDateParam("2026-06-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2026 || got.Month() != 6 || got.Day() != 1 {
		t.Errorf("unexpected date: %v", got)
	}

	if zero, err := parseDateParam(""); err != nil || !zero.IsZero() {
		t.Errorf("empty input should parse to zero time without error, got (%v, %v)", zero, err)
	}

	if _, err := parseDateParam("06/01/2026"); err == nil {
		t.Error("expected error for non-ISO date format")
	}
}

func TestSlugRegex(t *testing.T) {
	valid := []string{"gophercon-eu-2026", "fosdem", "a", "kubecon-na-2025"}
	invalid := []string{"", "Gophercon", "foo_bar", "-leading", "trailing-", "double--hyphen", "spaces here"}

	for _, s := range valid {
		if !slugRegex.MatchString(s) {
			t.Errorf("expected %q to be a valid slug", s)
		}
	}
	for _, s := range invalid {
		if slugRegex.MatchString(s) {
			t.Errorf("expected %q to be an invalid slug", s)
		}
	}
}
