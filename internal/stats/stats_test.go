package stats

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliangdz/clawSearXNG/internal/types"
)

func newTestRecorder(t *testing.T) *Redis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedis(client)
}

func TestRedisRecorder(t *testing.T) {
	ctx := context.Background()

	t.Run("empty snapshot has zeroed rates", func(t *testing.T) {
		rec := newTestRecorder(t)
		snap, err := rec.Snapshot(ctx)
		require.NoError(t, err)
		assert.Zero(t, snap.QueriesTotal)
		assert.Zero(t, snap.CacheHitRate)
		assert.Zero(t, snap.AvgLatencyMs)
	})

	t.Run("records accumulate across calls", func(t *testing.T) {
		rec := newTestRecorder(t)
		rec.Record(ctx, types.IntentCode, true, 100)
		rec.Record(ctx, types.IntentCode, false, 300)

		snap, err := rec.Snapshot(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, snap.QueriesTotal)
		assert.InDelta(t, 0.5, snap.CacheHitRate, 0.001)
		assert.InDelta(t, 200, snap.AvgLatencyMs, 0.001)
		assert.EqualValues(t, 2, snap.QueriesByIntent[types.IntentCode])
		assert.EqualValues(t, 0, snap.QueriesByIntent[types.IntentNews])
	})
}
