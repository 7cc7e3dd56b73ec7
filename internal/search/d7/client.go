package d7

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leadgenhq/d7-lead-proxy/internal/lead"
	"github.com/leadgenhq/d7-lead-proxy/internal/search"
)

type Config struct {
	APIKey         string
	BaseURL        string
	SearchTimeout  time.Duration
	ResultsTimeout time.Duration
}

type Client struct {
	apiKey         string
	baseURL        string
	searchTimeout  time.Duration
	resultsTimeout time.Duration
	client         *http.Client
	logger         *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://dash.d7leadfinder.com/app/api"
	}
	if cfg.SearchTimeout == 0 {
		cfg.SearchTimeout = 30 * time.Second
	}
	if cfg.ResultsTimeout == 0 {
		cfg.ResultsTimeout = 45 * time.Second
	}

	return &Client{
		apiKey:         cfg.APIKey,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		searchTimeout:  cfg.SearchTimeout,
		resultsTimeout: cfg.ResultsTimeout,
		client:         &http.Client{},
		logger:         logger,
	}
}

// flexInt tolerates D7 encoding integers as either numbers or strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not an integer: %q", s)
	}
	*f = flexInt(n)
	return nil
}

type searchResponse struct {
	SearchID    flexInt `json:"searchid"`
	WaitSeconds flexInt `json:"wait_seconds"`
}

func (c *Client) InitiateSearch(ctx context.Context, params lead.SearchParams) (*lead.SearchHandle, error) {
	q := url.Values{}
	q.Set("keyword", params.Niche)
	q.Set("location", params.City)
	q.Set("country", params.Country)
	q.Set("key", c.apiKey)

	body, err := c.get(ctx, "/search/", q, c.searchTimeout)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if resp.SearchID <= 0 {
		return nil, fmt.Errorf("search response missing searchid")
	}

	c.logger.Debug("search initiated",
		zap.Int("searchid", int(resp.SearchID)),
		zap.Int("wait_seconds", int(resp.WaitSeconds)))

	return &lead.SearchHandle{
		SearchID:    int(resp.SearchID),
		WaitSeconds: int(resp.WaitSeconds),
	}, nil
}

func (c *Client) FetchResults(ctx context.Context, searchID int) ([]lead.RawRecord, error) {
	q := url.Values{}
	q.Set("id", strconv.Itoa(searchID))
	q.Set("key", c.apiKey)

	body, err := c.get(ctx, "/results/", q, c.resultsTimeout)
	if err != nil {
		return nil, err
	}

	// D7 sometimes answers with an object (e.g. "still processing") instead
	// of the results array. Degrade to zero results rather than failing.
	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		c.logger.Warn("results body is not an array, returning empty set",
			zap.Int("searchid", searchID))
		return []lead.RawRecord{}, nil
	}

	records := make([]lead.RawRecord, len(elems))
	for i, raw := range elems {
		var rec map[string]any
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue // keep nil marker, Transform substitutes a placeholder
		}
		records[i] = rec
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", search.ErrTimeout, timeout)
		}
		return nil, fmt.Errorf("%w: %v", search.ErrConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", search.ErrTimeout, timeout)
		}
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("upstream returned error status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(body, 512)))
		return nil, &search.StatusError{StatusCode: resp.StatusCode, Body: string(truncate(body, 512))}
	}
	return body, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
