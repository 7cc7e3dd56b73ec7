package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/leadgenhq/d7-lead-proxy/internal/lead"
	"github.com/leadgenhq/d7-lead-proxy/internal/metrics"
	"github.com/leadgenhq/d7-lead-proxy/internal/search"
)

// SearchService orchestrates the upstream provider calls. Three operations:
// initiate a search, fetch results for a handle, and the combined full
// search (initiate, wait, fetch). There is no retry and no polling: one
// upstream failure ends the request.
type SearchService interface {
	Initiate(ctx context.Context, params lead.SearchParams) (*lead.SearchHandle, error)
	Results(ctx context.Context, searchID int, params lead.SearchParams) ([]lead.Lead, error)
	FullSearch(ctx context.Context, params lead.SearchParams) (*FullSearchResult, error)
}

type FullSearchResult struct {
	SearchID int
	Leads    []lead.Lead
}

type Config struct {
	// DefaultWait replaces a missing or non-positive wait_seconds from the
	// upstream handle during full search.
	DefaultWait time.Duration
}

type searchService struct {
	client      search.Client
	logger      *zap.Logger
	metrics     *metrics.Metrics
	defaultWait time.Duration
	sleep       func(ctx context.Context, d time.Duration)
}

func NewSearchService(client search.Client, logger *zap.Logger, m *metrics.Metrics, cfg Config) SearchService {
	wait := cfg.DefaultWait
	if wait <= 0 {
		wait = 30 * time.Second
	}
	return &searchService{
		client:      client,
		logger:      logger,
		metrics:     m,
		defaultWait: wait,
		sleep:       sleepCtx,
	}
}

func (s *searchService) Initiate(ctx context.Context, params lead.SearchParams) (*lead.SearchHandle, error) {
	// A client abort must not interrupt an in-flight upstream call; only
	// the per-operation deadlines bound it.
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	handle, err := s.client.InitiateSearch(ctx, params)
	s.recordUpstream("search", err, start)
	if err != nil {
		s.logger.Error("initiate search failed",
			zap.String("params", params.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("search initiated",
		zap.String("params", params.String()),
		zap.Int("searchid", handle.SearchID),
		zap.Int("wait_seconds", handle.WaitSeconds))
	return handle, nil
}

func (s *searchService) Results(ctx context.Context, searchID int, params lead.SearchParams) ([]lead.Lead, error) {
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	records, err := s.client.FetchResults(ctx, searchID)
	s.recordUpstream("results", err, start)
	if err != nil {
		s.logger.Error("fetch results failed",
			zap.Int("searchid", searchID),
			zap.Error(err))
		return nil, err
	}

	leads := lead.Transform(records, params)
	if s.metrics != nil {
		s.metrics.RecordLeads(len(leads))
	}
	s.logger.Info("results fetched",
		zap.Int("searchid", searchID),
		zap.Int("count", len(leads)))
	return leads, nil
}

func (s *searchService) FullSearch(ctx context.Context, params lead.SearchParams) (*FullSearchResult, error) {
	ctx = context.WithoutCancel(ctx)

	handle, err := s.Initiate(ctx, params)
	if err != nil {
		return nil, err
	}

	wait := time.Duration(handle.WaitSeconds) * time.Second
	if wait <= 0 {
		wait = s.defaultWait
	}
	s.logger.Info("waiting before fetching results",
		zap.Int("searchid", handle.SearchID),
		zap.Duration("wait", wait))
	s.sleep(ctx, wait)

	// Single attempt: whatever the upstream has after the wait is returned,
	// there is no re-check when results are not ready yet.
	leads, err := s.Results(ctx, handle.SearchID, params)
	if err != nil {
		return nil, err
	}
	return &FullSearchResult{SearchID: handle.SearchID, Leads: leads}, nil
}

func (s *searchService) recordUpstream(op string, err error, start time.Time) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordUpstreamRequest(op, status, time.Since(start))
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
