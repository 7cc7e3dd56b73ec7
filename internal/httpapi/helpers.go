package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorEnvelope is the JSON error shape returned to callers. The error
// field is a stable category, the message is generic and never leaks
// upstream response bodies.
type ErrorEnvelope struct {
	Error             string   `json:"error"`
	Message           string   `json:"message"`
	Timestamp         string   `json:"timestamp"`
	Fields            []string `json:"fields,omitempty"`
	RetryAfterSeconds int      `json:"retry_after_seconds,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, category, message string) {
	WriteJSON(w, status, ErrorEnvelope{
		Error:     category,
		Message:   message,
		Timestamp: nowRFC3339(),
	})
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func methodMux(m map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.Method]; ok {
			h(w, r)
			return
		}
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func decodeBody(r *http.Request) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}
