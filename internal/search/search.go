package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/leadgenhq/d7-lead-proxy/internal/lead"
)

var (
	// ErrTimeout marks an upstream call that exceeded its deadline.
	ErrTimeout = errors.New("upstream request timed out")
	// ErrConnection marks a network-level failure before any response.
	ErrConnection = errors.New("upstream connection failed")
)

// StatusError is a non-2xx upstream response. The proxy maps 5xx to a 502
// and passes 4xx through to the caller.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// Client is the upstream lead provider. Both calls block until a response
// arrives or the per-operation deadline expires.
type Client interface {
	// InitiateSearch starts a search upstream and returns its handle.
	InitiateSearch(ctx context.Context, params lead.SearchParams) (*lead.SearchHandle, error)
	// FetchResults retrieves the raw records for a previously initiated
	// search. A non-array upstream body yields an empty slice, not an error.
	FetchResults(ctx context.Context, searchID int) ([]lead.RawRecord, error)
}
