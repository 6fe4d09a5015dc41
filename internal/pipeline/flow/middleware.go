package flow

import (
	"context"
	"errors"
	"time"

	"github.com/juliangdz/clawSearXNG/pkg/safe"
)

// WithTimeout bounds a Stage's Run call to d, adapted from the
// teacher's per-call context deadlines (ai/client/chat callers derive
// a bounded context per outbound call the same way).
func WithTimeout[I, O any](d time.Duration) Middleware[I, O] {
	return func(next Stage[I, O]) Stage[I, O] {
		return StageFunc[I, O](func(ctx context.Context, input I) (O, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next.Run(ctx, input)
		})
	}
}

// WithRecover converts a panic inside the wrapped Stage into an error,
// mirroring the teacher's recoverer middleware
// (ai/client/chat/middlewares/recover) built on pkg/safe.WithRecover.
func WithRecover[I, O any]() Middleware[I, O] {
	return func(next Stage[I, O]) Stage[I, O] {
		return StageFunc[I, O](func(ctx context.Context, input I) (out O, err error) {
			safe.WithRecover(func() {
				out, err = next.Run(ctx, input)
			}, func(panicErr error) {
				err = errors.Join(err, panicErr)
			})()
			return
		})
	}
}
