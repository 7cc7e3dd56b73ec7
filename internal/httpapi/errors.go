package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/leadgenhq/d7-lead-proxy/internal/lead"
	"github.com/leadgenhq/d7-lead-proxy/internal/search"
)

// classify maps a failure to the status, category and client-safe message
// of its error envelope. Validation failures keep their field detail;
// everything else gets a generic message, with the full diagnostic logged
// server-side by the caller.
func classify(err error) (status int, category, message string) {
	var vErr *lead.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, "validation_error", vErr.Error()
	}

	var sErr *search.StatusError
	if errors.As(err, &sErr) {
		if sErr.StatusCode >= 500 {
			return http.StatusBadGateway, "upstream_error", "External API error"
		}
		return sErr.StatusCode, "upstream_error", "External API rejected the request"
	}

	if errors.Is(err, search.ErrTimeout) ||
		errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return http.StatusGatewayTimeout, "timeout", "Request timeout"
	}

	var uErr *url.Error
	if errors.Is(err, search.ErrConnection) || errors.As(err, &uErr) {
		return http.StatusBadGateway, "upstream_error", "External API connection failed"
	}

	return http.StatusInternalServerError, "internal_error", "Internal server error"
}

func writeClassified(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	status, category, message := classify(err)
	if status >= 500 {
		logger.Error("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.Error(err))
	} else {
		logger.Warn("request rejected",
			zap.String("op", op),
			zap.Int("status", status),
			zap.Error(err))
	}

	env := ErrorEnvelope{Error: category, Message: message}
	var vErr *lead.ValidationError
	if errors.As(err, &vErr) {
		env.Fields = vErr.Fields
	}
	env.Timestamp = nowRFC3339()
	WriteJSON(w, status, env)
}
