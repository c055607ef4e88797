// Package respond provides utilities for sending HTTP responses in JSON format.
// It includes error handling with sanitization to prevent leaking sensitive information.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"portfolio-content/internal/handler/http/responsewriter"
)

// SourceHeader carries the data source of a content response.
const SourceHeader = responsewriter.SourceHeader

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Envelope is the body of every content response.
type Envelope struct {
	Data   any    `json:"data"`
	Source string `json:"source"`
}

// Content writes data with its source in the body and in the X-Content-Source header.
func Content(w http.ResponseWriter, source string, data any) {
	w.Header().Set(SourceHeader, source)
	if source != "preview" {
		w.Header().Set("Cache-Control", "public, max-age=60")
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	JSON(w, http.StatusOK, Envelope{Data: data, Source: source})
}

// Error writes a JSON error response with the given status code and error message.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// safeFragments mark messages that are fine to show to API consumers.
var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"unknown",
	"must be",
	"cannot be",
	"too long",
	"rate limit",
}

// SafeError sanitizes error messages before returning them to users.
// Server errors always become "internal server error" and the sanitized
// detail is logged. Client errors pass through when they look like
// validation messages.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	msg := err.Error()
	isSafe := false
	if code < 500 {
		lower := strings.ToLower(msg)
		for _, safe := range safeFragments {
			if strings.Contains(lower, safe) {
				isSafe = true
				break
			}
		}
	}

	if isSafe {
		JSON(w, code, map[string]string{"error": msg})
		return
	}
	slog.Default().Error("request failed",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	if code < 500 {
		JSON(w, code, map[string]string{"error": strings.ToLower(http.StatusText(code))})
		return
	}
	JSON(w, code, map[string]string{"error": "internal server error"})
}
