package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a sliding-window store backed by a Redis sorted set per
// client key. Use it when several proxy instances must share one budget.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
	seq    atomic.Int64
}

type RedisOption func(*RedisStore)

func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

func NewRedisStore(rdb *redis.Client, cfg Config, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "ratelimit",
		limit:  cfg.MaxRequests,
		window: cfg.Window,
	}
	if s.limit <= 0 {
		s.limit = 100
	}
	if s.window <= 0 {
		s.window = 15 * time.Minute
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow prunes, records and counts in one MULTI, so concurrent requests for
// the same key can never both slip under the limit: each transaction sees
// every member added before it, its own included. A rejected request's
// member is removed again so it does not consume budget.
func (s *RedisStore) Allow(ctx context.Context, key string) (Decision, error) {
	now := time.Now()
	rkey := s.prefix + ":" + key
	windowStart := now.Add(-s.window).UnixMilli()
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + strconv.FormatInt(s.seq.Add(1), 10)

	pipe := s.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, rkey, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, rkey, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: member,
	})
	countCmd := pipe.ZCard(ctx, rkey)
	oldestCmd := pipe.ZRangeWithScores(ctx, rkey, 0, 0)
	pipe.Expire(ctx, rkey, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("ratelimit pipeline: %w", err)
	}

	count := int(countCmd.Val())
	if count > s.limit {
		// Best effort: if the rollback fails the key only over-counts,
		// which rejects more, never admits more.
		_ = s.rdb.ZRem(ctx, rkey, member).Err()

		retryAfter := s.window
		if oldest := oldestCmd.Val(); len(oldest) > 0 {
			oldestAt := time.UnixMilli(int64(oldest[0].Score))
			retryAfter = oldestAt.Add(s.window).Sub(now)
		}
		return Decision{Allowed: false, Remaining: 0, RetryAfter: retryAfter}, nil
	}

	return Decision{Allowed: true, Remaining: s.limit - count}, nil
}
