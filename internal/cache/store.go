// Package cache implements C1/C8's Store contract: read/write cached
// Responses keyed by fingerprint (the stats counters live in
// internal/stats). Backed by Redis (github.com/redis/go-redis/v9), the
// dependency pulled from the jordigilh-kubernaut example's go.mod —
// neither the teacher nor any other example repo ships a KV cache
// client, so this is an "enrich from the rest of the pack" adoption.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/juliangdz/clawSearXNG/internal/errs"
	"github.com/juliangdz/clawSearXNG/internal/types"
)

const keyPrefix = "cache:"

// Store is the narrow cache contract the pipeline depends on. Any I/O
// error is swallowed by the caller (internal/pipeline), never
// propagated as a fatal error — the cache is an optimization, never a
// source of correctness (spec.md §4.1).
type Store interface {
	Lookup(ctx context.Context, fingerprint string) (types.Response, bool, error)
	Store(ctx context.Context, fingerprint string, resp types.Response, ttl time.Duration) error
	Ping(ctx context.Context) error
}

// Redis is a Store backed by a single Redis instance.
type Redis struct {
	client *redis.Client
}

// NewRedis builds a Store from already-constructed Redis options.
func NewRedis(opts *redis.Options) *Redis {
	return &Redis{client: redis.NewClient(opts)}
}

// NewRedisFromClient wraps an existing *redis.Client (used by tests
// against a miniredis instance).
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Lookup implements Store. Deserialization errors map to a miss; the
// stale/corrupt entry is left in place to be overwritten on the next
// write, per spec.md §4.1's read contract.
func (r *Redis) Lookup(ctx context.Context, fingerprint string) (types.Response, bool, error) {
	raw, err := r.client.Get(ctx, keyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.Response{}, false, nil
	}
	if err != nil {
		return types.Response{}, false, errs.New(errs.CacheDegraded, "redis get", err)
	}

	var resp types.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return types.Response{}, false, nil
	}
	return resp, true, nil
}

// Store implements Store's write contract: cache_hit is always stored
// as false. Lookup returns the entry as stored; the pipeline's read
// path flips it to true and refreshes query_time_ms.
func (r *Redis) Store(ctx context.Context, fingerprint string, resp types.Response, ttl time.Duration) error {
	resp.CacheHit = false
	raw, err := json.Marshal(resp)
	if err != nil {
		return errs.New(errs.CacheDegraded, "marshal response", err)
	}
	if err := r.client.Set(ctx, keyPrefix+fingerprint, raw, ttl).Err(); err != nil {
		return errs.New(errs.CacheDegraded, "redis set", err)
	}
	return nil
}

// Ping reports whether the cache store is reachable, consulted by
// /health (spec.md §6.1).
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
