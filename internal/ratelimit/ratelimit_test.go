package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	l := New(Config{MaxRequests: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		dec, err := l.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !dec.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if dec.Remaining != 3-i-1 {
			t.Errorf("request %d remaining = %d, want %d", i+1, dec.Remaining, 3-i-1)
		}
	}

	dec, err := l.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if dec.Allowed {
		t.Error("fourth request should be blocked")
	}
	if dec.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want positive", dec.RetryAfter)
	}
}

func TestLimiterKeysIndependent(t *testing.T) {
	l := New(Config{MaxRequests: 1, Window: time.Minute})
	ctx := context.Background()

	if dec, _ := l.Allow(ctx, "1.1.1.1"); !dec.Allowed {
		t.Error("first client's first request should be allowed")
	}
	if dec, _ := l.Allow(ctx, "2.2.2.2"); !dec.Allowed {
		t.Error("second client's first request should be allowed")
	}
	if dec, _ := l.Allow(ctx, "1.1.1.1"); dec.Allowed {
		t.Error("first client's second request should be blocked")
	}
}

func TestLimiterWindowExpiry(t *testing.T) {
	l := New(Config{MaxRequests: 1, Window: 15 * time.Minute})
	ctx := context.Background()

	now := time.Now()
	l.now = func() time.Time { return now }

	if dec, _ := l.Allow(ctx, "k"); !dec.Allowed {
		t.Fatal("first request should be allowed")
	}
	if dec, _ := l.Allow(ctx, "k"); dec.Allowed {
		t.Fatal("second request inside the window should be blocked")
	}

	now = now.Add(15*time.Minute + time.Second)
	if dec, _ := l.Allow(ctx, "k"); !dec.Allowed {
		t.Error("request after the window should be allowed again")
	}
}

func TestLimiterDefaults(t *testing.T) {
	l := New(Config{})
	if l.limit != 100 {
		t.Errorf("limit = %d, want 100", l.limit)
	}
	if l.window != 15*time.Minute {
		t.Errorf("window = %v, want 15m", l.window)
	}
}

func TestLimiterCleanup(t *testing.T) {
	l := New(Config{MaxRequests: 5, Window: time.Minute})
	ctx := context.Background()

	now := time.Now()
	l.now = func() time.Time { return now }

	l.Allow(ctx, "stale")
	l.Allow(ctx, "fresh")

	now = now.Add(2 * time.Minute)
	l.Allow(ctx, "fresh")
	l.cleanup()

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.requests["stale"]; ok {
		t.Error("stale key should have been evicted")
	}
	if _, ok := l.requests["fresh"]; !ok {
		t.Error("fresh key should survive cleanup")
	}
}
