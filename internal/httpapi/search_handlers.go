package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/leadgenhq/d7-lead-proxy/internal/lead"
	"github.com/leadgenhq/d7-lead-proxy/internal/service"
)

type SearchHandler struct {
	Service service.SearchService
	Logger  *zap.Logger
}

type searchResponse struct {
	Success     bool `json:"success"`
	SearchID    int  `json:"searchid"`
	WaitSeconds int  `json:"wait_seconds"`
}

type resultsResponse struct {
	Success  bool        `json:"success"`
	Results  []lead.Lead `json:"results"`
	Count    int         `json:"count"`
	SearchID int         `json:"searchid"`
}

type fullSearchResponse struct {
	Success      bool              `json:"success"`
	Results      []lead.Lead       `json:"results"`
	Count        int               `json:"count"`
	SearchID     int               `json:"searchid"`
	SearchParams lead.SearchParams `json:"searchParams"`
}

// Search initiates an upstream search and hands the caller its handle. The
// caller is responsible for retaining searchid and scheduling the results
// call itself.
func (h SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "request body must be valid JSON")
		return
	}
	params, err := lead.ParseSearchParams(body)
	if err != nil {
		writeClassified(w, h.Logger, "search", err)
		return
	}

	handle, err := h.Service.Initiate(r.Context(), params)
	if err != nil {
		writeClassified(w, h.Logger, "search", err)
		return
	}

	WriteJSON(w, http.StatusOK, searchResponse{
		Success:     true,
		SearchID:    handle.SearchID,
		WaitSeconds: handle.WaitSeconds,
	})
}

// Results fetches and normalizes the records for a previously initiated
// search. originalParams is optional; when present its city/country feed
// the per-field fallbacks of the transformer.
func (h SearchHandler) Results(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "request body must be valid JSON")
		return
	}
	searchID, err := lead.ParseSearchID(body["searchid"])
	if err != nil {
		writeClassified(w, h.Logger, "results", err)
		return
	}
	params := originalParams(body)

	leads, err := h.Service.Results(r.Context(), searchID, params)
	if err != nil {
		writeClassified(w, h.Logger, "results", err)
		return
	}

	WriteJSON(w, http.StatusOK, resultsResponse{
		Success:  true,
		Results:  leads,
		Count:    len(leads),
		SearchID: searchID,
	})
}

// FullSearch runs the whole linear sequence: initiate, wait, fetch,
// transform. It blocks for the upstream-suggested wait, so this is the slow
// endpoint by design.
func (h SearchHandler) FullSearch(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "request body must be valid JSON")
		return
	}
	params, err := lead.ParseSearchParams(body)
	if err != nil {
		writeClassified(w, h.Logger, "full-search", err)
		return
	}

	res, err := h.Service.FullSearch(r.Context(), params)
	if err != nil {
		writeClassified(w, h.Logger, "full-search", err)
		return
	}

	WriteJSON(w, http.StatusOK, fullSearchResponse{
		Success:      true,
		Results:      res.Leads,
		Count:        len(res.Leads),
		SearchID:     res.SearchID,
		SearchParams: params,
	})
}

func originalParams(body map[string]any) lead.SearchParams {
	var params lead.SearchParams
	op, ok := body["originalParams"].(map[string]any)
	if !ok {
		return params
	}
	if s, ok := op["niche"].(string); ok {
		params.Niche = s
	}
	if s, ok := op["city"].(string); ok {
		params.City = s
	}
	if s, ok := op["country"].(string); ok {
		params.Country = s
	}
	return params
}
