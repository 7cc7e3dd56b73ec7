package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status field = %v, want ok", resp["status"])
	}
	if resp["env"] != "test" {
		t.Errorf("env = %v, want test", resp["env"])
	}
	for _, field := range []string{"uptime", "timestamp", "version"} {
		if _, ok := resp[field]; !ok {
			t.Errorf("missing field %q", field)
		}
	}
}

func TestInfoEndpoint(t *testing.T) {
	h := newTestHandler(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/info", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Service   string   `json:"service"`
		Endpoints []string `json:"endpoints"`
		RateLimit struct {
			WindowMinutes int `json:"windowMinutes"`
			MaxRequests   int `json:"maxRequests"`
		} `json:"rateLimit"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Service != "d7-lead-proxy" {
		t.Errorf("service = %q", resp.Service)
	}
	if len(resp.Endpoints) == 0 {
		t.Error("endpoints list empty")
	}
	if resp.RateLimit.WindowMinutes != 15 || resp.RateLimit.MaxRequests != 100 {
		t.Errorf("rateLimit = %+v", resp.RateLimit)
	}
}

func TestNotFound(t *testing.T) {
	h := newTestHandler(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp struct {
		Error           string   `json:"error"`
		AvailableRoutes []string `json:"availableRoutes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "not_found" {
		t.Errorf("error = %q, want not_found", resp.Error)
	}
	if len(resp.AvailableRoutes) == 0 {
		t.Error("availableRoutes empty")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/d7/search", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
