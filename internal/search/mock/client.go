package mock

import (
	"context"
	"sync"
	"time"

	"github.com/leadgenhq/d7-lead-proxy/internal/lead"
)

// Client is a configurable in-memory stand-in for the upstream provider.
type Client struct {
	Handle     *lead.SearchHandle
	Records    []lead.RawRecord
	SearchErr  error
	ResultsErr error
	Delay      time.Duration

	SearchCalls  int
	ResultsCalls int
	LastParams   lead.SearchParams
	LastSearchID int

	mu sync.Mutex
}

func New() *Client {
	return &Client{
		Handle: &lead.SearchHandle{SearchID: 1, WaitSeconds: 0},
	}
}

func (c *Client) WithHandle(h *lead.SearchHandle) *Client {
	c.Handle = h
	return c
}

func (c *Client) WithRecords(recs []lead.RawRecord) *Client {
	c.Records = recs
	return c
}

func (c *Client) WithSearchErr(err error) *Client {
	c.SearchErr = err
	return c
}

func (c *Client) WithResultsErr(err error) *Client {
	c.ResultsErr = err
	return c
}

func (c *Client) InitiateSearch(ctx context.Context, params lead.SearchParams) (*lead.SearchHandle, error) {
	c.mu.Lock()
	c.SearchCalls++
	c.LastParams = params
	delay, err, handle := c.Delay, c.SearchErr, c.Handle
	c.mu.Unlock()

	if err := wait(ctx, delay); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	h := *handle
	return &h, nil
}

func (c *Client) FetchResults(ctx context.Context, searchID int) ([]lead.RawRecord, error) {
	c.mu.Lock()
	c.ResultsCalls++
	c.LastSearchID = searchID
	delay, err, recs := c.Delay, c.ResultsErr, c.Records
	c.mu.Unlock()

	if err := wait(ctx, delay); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
