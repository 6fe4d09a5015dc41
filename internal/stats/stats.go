// Package stats implements the C8 process-wide counters of spec.md
// §3/§6.4: queries_total, cache_hits, latency sum/count, and
// per-intent counts. Counters are non-negative and never decremented;
// increments are best-effort and must never fail a request.
package stats

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/juliangdz/clawSearXNG/internal/types"
)

const (
	keyQueriesTotal = "stats:queries_total"
	keyCacheHits    = "stats:cache_hits"
	keyLatencySum   = "stats:latency_sum_ms"
	keyLatencyCount = "stats:latency_count"
	keyByIntent     = "stats:by_intent:"
)

// Recorder is the narrow contract the pipeline uses to record a
// completed request; Snapshot is consulted by the /stats surface.
type Recorder interface {
	Record(ctx context.Context, intent types.Intent, cacheHit bool, latencyMs float64)
	Snapshot(ctx context.Context) (types.StatsSnapshot, error)
}

// Redis is a Recorder backed by the same Redis instance as the cache.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Record increments the counters for one completed request. Errors are
// intentionally discarded and not reported to the caller — a stats
// write must never fail the request it's recording.
func (r *Redis) Record(ctx context.Context, intent types.Intent, cacheHit bool, latencyMs float64) {
	pipe := r.client.Pipeline()
	pipe.Incr(ctx, keyQueriesTotal)
	if cacheHit {
		pipe.Incr(ctx, keyCacheHits)
	}
	pipe.IncrByFloat(ctx, keyLatencySum, latencyMs)
	pipe.Incr(ctx, keyLatencyCount)
	pipe.Incr(ctx, keyByIntent+string(intent))
	_, _ = pipe.Exec(ctx)
}

var allIntents = []types.Intent{
	types.IntentResearch,
	types.IntentBiomedical,
	types.IntentCode,
	types.IntentNews,
	types.IntentGeneral,
}

// Snapshot computes the /stats payload (spec.md §6.1) from the raw
// counters: cache_hit_rate and avg_latency_ms are derived on read.
func (r *Redis) Snapshot(ctx context.Context) (types.StatsSnapshot, error) {
	total, err := r.client.Get(ctx, keyQueriesTotal).Int64()
	if err != nil && err != redis.Nil {
		return types.StatsSnapshot{}, err
	}
	hits, err := r.client.Get(ctx, keyCacheHits).Int64()
	if err != nil && err != redis.Nil {
		return types.StatsSnapshot{}, err
	}
	latSum, err := r.client.Get(ctx, keyLatencySum).Float64()
	if err != nil && err != redis.Nil {
		return types.StatsSnapshot{}, err
	}
	latCount, err := r.client.Get(ctx, keyLatencyCount).Int64()
	if err != nil && err != redis.Nil {
		return types.StatsSnapshot{}, err
	}

	byIntent := make(map[types.Intent]int64, len(allIntents))
	for _, intent := range allIntents {
		n, err := r.client.Get(ctx, keyByIntent+string(intent)).Int64()
		if err != nil && err != redis.Nil {
			return types.StatsSnapshot{}, err
		}
		byIntent[intent] = n
	}

	snap := types.StatsSnapshot{
		QueriesTotal:    total,
		QueriesByIntent: byIntent,
	}
	if total > 0 {
		snap.CacheHitRate = float64(hits) / float64(total)
	}
	if latCount > 0 {
		snap.AvgLatencyMs = latSum / float64(latCount)
	}
	return snap, nil
}
