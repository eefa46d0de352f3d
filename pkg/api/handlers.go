package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/confhub/confhub/pkg/config"
	"github.com/confhub/confhub/pkg/models"
)

// encodeResponse encodes a response as JSON
func encodeResponse(w http.ResponseWriter, r *http.Request, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(data); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// encodeError sends a JSON error response
func encodeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// encodeValidationErrors sends the field-level failures of an invalid record
// as a 422 so clients can attach messages to form fields.
func encodeValidationErrors(w http.ResponseWriter, errs models.ValidationErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "Validation failed",
		"fields": errs,
	})
}

// requestValidator checks the declarative `validate` tags on request bodies.
var requestValidator = validator.New(validator.WithRequiredStructEnabled())

// decodeRequest parses a JSON body into dst and runs tag validation.
// The returned error message is safe to show to clients.
func decodeRequest(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := requestValidator.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fields := make([]string, len(invalid))
			for i, fe := range invalid {
				fields[i] = strings.ToLower(fe.Field())
			}
			return fmt.Errorf("invalid or missing fields: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

// safeGoSem limits the number of concurrent SafeGo goroutines to avoid
// unbounded growth under high traffic (e.g. bulk date updates).
var safeGoSem = make(chan struct{}, 50)

// SafeGo launches a goroutine with panic recovery.
// At most 50 goroutines run concurrently; callers beyond that block until a slot opens.
// If cfg.OnBackgroundDone is set, it is called after fn completes (used by tests).
func SafeGo(cfg *config.Config, fn func()) {
	safeGoSem <- struct{}{} // acquire slot
	go func() {
		defer func() {
			<-safeGoSem // release slot
			if r := recover(); r != nil {
				cfg.Logger.Error("recovered from panic in goroutine", "panic", r)
			}
			if cfg.OnBackgroundDone != nil {
				cfg.OnBackgroundDone()
			}
		}()
		fn()
	}()
}
