package paystore

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Payment records stay for a year; the counter is permanent.
const ttlPayment = 365 * 24 * time.Hour

type redistore struct{ rdb *redis.Client }

// NewRedisStore connects to the Redis at the given URL.
func NewRedisStore(ctx context.Context, redisURL string) (Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return &redistore{rdb: rdb}, nil
}

// NewRedisStoreWithClient wraps an existing client, for tests.
func NewRedisStoreWithClient(rdb *redis.Client) Store {
	return &redistore{rdb: rdb}
}

func (s *redistore) keyPayment(sessionID string) string {
	return "pay:session:" + strings.TrimSpace(sessionID)
}

func (s *redistore) keyCount() string { return "pay:count" }

func (s *redistore) MarkPaid(ctx context.Context, p Payment) error {
	if strings.TrimSpace(p.SessionID) == "" {
		return nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	// only count first-time settlements
	set, err := s.rdb.SetNX(ctx, s.keyPayment(p.SessionID), raw, ttlPayment).Result()
	if err != nil {
		return err
	}
	if set {
		return s.rdb.Incr(ctx, s.keyCount()).Err()
	}
	return nil
}

func (s *redistore) Get(ctx context.Context, sessionID string) (*Payment, error) {
	raw, err := s.rdb.Get(ctx, s.keyPayment(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p Payment
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *redistore) Count(ctx context.Context) (int64, error) {
	n, err := s.rdb.Get(ctx, s.keyCount()).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

func (s *redistore) Close() error { return s.rdb.Close() }
