// Package redisstore backs idempotencysvc.Store and abusesvc.Limiter with
// a shared go-redis client. Grounded on the teacher's RedisConsumerRepository
// (panic-on-unreachable-at-boot, thin wrapper over a single client) with the
// OpenTelemetry span instrumentation dropped (see DESIGN.md dropped-deps
// list) and the sliding-window counter built on a Redis sorted set the way
// the teacher's own rate-limiting middleware is absent but its Redis-as-
// side-store convention otherwise applies.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coziyoo/backend/internal/services/idempotencysvc"
	"github.com/coziyoo/backend/pkg/idgen"
)

// Client wraps a single go-redis connection, panicking on an unreachable
// server at boot the way postgres.Connect does.
type Client struct {
	rdb *redis.Client
}

func Connect(ctx context.Context, addr, password string, db int) *Client {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("redisstore: failed to connect: %v", err))
	}
	return &Client{rdb: rdb}
}

func (c *Client) Close() error { return c.rdb.Close() }

// Store satisfies idempotencysvc.Store.
type Store struct{ client *Client }

func NewStore(c *Client) *Store { return &Store{client: c} }

func idempotencyKey(scope, keyHash string) string {
	return "idem:" + scope + ":" + keyHash
}

func (s *Store) Get(ctx context.Context, scope, keyHash string) (*idempotencysvc.Record, bool, error) {
	raw, err := s.client.rdb.Get(ctx, idempotencyKey(scope, keyHash)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rec idempotencysvc.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false, err
	}
	return &rec, true, nil
}

func (s *Store) Put(ctx context.Context, scope, keyHash string, rec idempotencysvc.Record, ttl time.Duration) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.rdb.Set(ctx, idempotencyKey(scope, keyHash), raw, ttl).Err()
}

// Limiter satisfies abusesvc.Limiter with a sliding-window log: each call
// records its timestamp in a sorted set, drops entries older than `window`,
// and counts what remains, all in one MULTI/EXEC round trip per check.
type Limiter struct{ client *Client }

func NewLimiter(c *Client) *Limiter { return &Limiter{client: c} }

func (l *Limiter) Allow(ctx context.Context, key string, window time.Duration, max int) (bool, error) {
	rdbKey := "ratelimit:" + key
	now := time.Now()
	pipe := l.client.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, rdbKey, "-inf", strconv.FormatInt(now.Add(-window).UnixMicro(), 10))
	pipe.ZAdd(ctx, rdbKey, redis.Z{Score: float64(now.UnixMicro()), Member: idgen.NewID().String()})
	count := pipe.ZCard(ctx, rdbKey)
	pipe.Expire(ctx, rdbKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return count.Val() <= int64(max), nil
}
