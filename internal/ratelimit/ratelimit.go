package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Store decides whether a request from the given client key may proceed.
// Implementations count requests in a sliding window.
type Store interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type Config struct {
	MaxRequests int
	Window      time.Duration
}

// Limiter is the in-memory sliding-window store, keyed by client identity.
// It is the only shared mutable state in the process.
type Limiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

func New(cfg Config) *Limiter {
	limit := cfg.MaxRequests
	if limit <= 0 {
		limit = 100
	}
	window := cfg.Window
	if window <= 0 {
		window = 15 * time.Minute
	}

	return &Limiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (l *Limiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	old := l.requests[key]
	fresh := old[:0] // reuse underlying array
	for _, t := range old {
		if t.After(cutoff) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= l.limit {
		l.requests[key] = fresh
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: fresh[0].Add(l.window).Sub(now),
		}, nil
	}

	l.requests[key] = append(fresh, now)
	return Decision{Allowed: true, Remaining: l.limit - len(fresh) - 1}, nil
}

// StartJanitor evicts idle keys periodically until ctx is cancelled.
// Allow already prunes per key on access; the janitor only reclaims memory
// for clients that stopped sending requests.
func (l *Limiter) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = 5 * time.Minute
	}
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.cleanup()
			}
		}
	}()
}

func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	for key, ts := range l.requests {
		var fresh []time.Time
		for _, t := range ts {
			if t.After(cutoff) {
				fresh = append(fresh, t)
			}
		}
		if len(fresh) == 0 {
			delete(l.requests, key)
		} else {
			l.requests[key] = fresh
		}
	}
}
