package httpapi

import (
	"net/http"
	"time"
)

var apiRoutes = []string{
	"GET /health",
	"GET /api/info",
	"GET /metrics",
	"POST /api/d7/search",
	"POST /api/d7/results",
	"POST /api/d7/full-search",
}

type MetaHandler struct {
	Env        string
	Version    string
	Start      time.Time
	RateWindow time.Duration
	RateMax    int
}

func (h MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    int(time.Since(h.Start).Seconds()),
		"timestamp": nowRFC3339(),
		"env":       h.Env,
		"version":   h.Version,
	})
}

func (h MetaHandler) Info(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"service":   "d7-lead-proxy",
		"version":   h.Version,
		"endpoints": apiRoutes,
		"rateLimit": map[string]any{
			"windowMinutes": int(h.RateWindow.Minutes()),
			"maxRequests":   h.RateMax,
		},
	})
}

func (h MetaHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]any{
		"error":           "not_found",
		"message":         "route not found: " + r.Method + " " + r.URL.Path,
		"availableRoutes": apiRoutes,
	})
}
