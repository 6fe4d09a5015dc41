package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	t.Run("applies middlewares in order, outermost first", func(t *testing.T) {
		var order []string

		tag := func(name string) Middleware[string, string] {
			return func(next Stage[string, string]) Stage[string, string] {
				return StageFunc[string, string](func(ctx context.Context, in string) (string, error) {
					order = append(order, name)
					return next.Run(ctx, in)
				})
			}
		}

		base := StageFunc[string, string](func(ctx context.Context, in string) (string, error) {
			return in + "-done", nil
		})

		chained := Chain(base, tag("outer"), tag("inner"))
		out, err := chained.Run(context.Background(), "start")
		require.NoError(t, err)
		assert.Equal(t, "start-done", out)
		assert.Equal(t, []string{"outer", "inner"}, order)
	})

	t.Run("no middlewares returns the base stage unchanged", func(t *testing.T) {
		base := StageFunc[int, int](func(ctx context.Context, in int) (int, error) {
			return in * 2, nil
		})
		chained := Chain[int, int](base)
		out, err := chained.Run(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, 10, out)
	})
}

func TestWithTimeout(t *testing.T) {
	t.Run("propagates deadline exceeded", func(t *testing.T) {
		slow := StageFunc[string, string](func(ctx context.Context, in string) (string, error) {
			select {
			case <-time.After(50 * time.Millisecond):
				return in, nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		})

		wrapped := WithTimeout[string, string](5 * time.Millisecond)(slow)
		_, err := wrapped.Run(context.Background(), "x")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("fast stages complete before the deadline", func(t *testing.T) {
		fast := StageFunc[string, string](func(ctx context.Context, in string) (string, error) {
			return in, nil
		})

		wrapped := WithTimeout[string, string](50 * time.Millisecond)(fast)
		out, err := wrapped.Run(context.Background(), "x")
		require.NoError(t, err)
		assert.Equal(t, "x", out)
	})
}

func TestWithRecover(t *testing.T) {
	t.Run("converts a panic into an error", func(t *testing.T) {
		panicky := StageFunc[string, string](func(ctx context.Context, in string) (string, error) {
			panic("boom")
		})

		wrapped := WithRecover[string, string]()(panicky)
		_, err := wrapped.Run(context.Background(), "x")
		require.Error(t, err)
	})

	t.Run("passes through normal errors unchanged", func(t *testing.T) {
		failing := StageFunc[string, string](func(ctx context.Context, in string) (string, error) {
			return "", errors.New("normal failure")
		})

		wrapped := WithRecover[string, string]()(failing)
		_, err := wrapped.Run(context.Background(), "x")
		require.Error(t, err)
		assert.Equal(t, "normal failure", err.Error())
	})
}
