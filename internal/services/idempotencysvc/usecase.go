// Package idempotencysvc implements C5: the idempotency-key gate for
// monetary endpoints (order create, payment start, refund request).
// Grounded on the teacher's redis.RedisRepository aggregation inside
// services/command.UseCase — this is the one place in the pack where a
// cache-backed side-store is wired into a use case the same way this gate
// wires Redis.
package idempotencysvc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/coziyoo/backend/pkg/apperr"
)

// Record is the cached (scope, key) decision.
type Record struct {
	BodyHash   string
	StatusCode int
	Body       []byte
}

// Store is implemented by internal/adapters/redisstore.
type Store interface {
	Get(ctx context.Context, scope, keyHash string) (*Record, bool, error)
	Put(ctx context.Context, scope, keyHash string, rec Record, ttl time.Duration) error
}

type UseCase struct {
	Store Store
	TTL   time.Duration
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Check looks up scope+key; if a cached record exists with a matching body
// hash it is returned for replay. A matching key with a different body is
// IDEMPOTENCY_CONFLICT. No cached record means the caller should proceed
// and call StoreResponse afterward.
func (uc *UseCase) Check(ctx context.Context, scope, key string, body []byte) (*Record, error) {
	if key == "" {
		return nil, nil
	}

	bodyHash := hash(string(body))
	rec, found, err := uc.Store.Get(ctx, scope, hash(key))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if rec.BodyHash != bodyHash {
		return nil, apperr.New(apperr.CodeIdempotencyConflict, "idempotency key reused with a different request body")
	}
	return rec, nil
}

// StoreResponse persists the response for future replay.
func (uc *UseCase) StoreResponse(ctx context.Context, scope, key string, body, responseBody []byte, statusCode int) error {
	if key == "" {
		return nil
	}
	rec := Record{BodyHash: hash(string(body)), StatusCode: statusCode, Body: responseBody}
	return uc.Store.Put(ctx, scope, hash(key), rec, uc.TTL)
}

// MarshalCached is a convenience for handlers replaying a cached record.
func MarshalCached(v any) ([]byte, error) {
	return json.Marshal(v)
}
