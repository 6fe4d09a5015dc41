// Package flow provides a small composable stage primitive with
// middleware; internal/classifier uses it to wrap its LLM call with
// timeout and panic recovery, while internal/pipeline calls its stages
// directly. It is adapted
// from the teacher's generic Node[I,O]/Middleware DAG builder
// (Tangerg-lynx/flow), narrowed to a linear Stage chain: this pipeline
// has no branching, looping, or batching — spec.md §5 is explicit that
// "no per-request parallelism is required for correctness" within one
// request, so the builder/branch/loop/parallel machinery the teacher
// offers for general workflows has no job to do here.
package flow

import "context"

// Stage is a single processing step: input I in, output O out.
type Stage[I, O any] interface {
	Run(ctx context.Context, input I) (O, error)
}

// StageFunc adapts a plain function to a Stage.
type StageFunc[I, O any] func(ctx context.Context, input I) (O, error)

// Run implements Stage.
func (f StageFunc[I, O]) Run(ctx context.Context, input I) (O, error) {
	return f(ctx, input)
}

// Middleware wraps a Stage with additional behavior (timeouts,
// recovery, logging) without changing its input/output types — the
// same higher-order shape the teacher's ai/client/chat middleware
// chain uses for its CallHandler.
type Middleware[I, O any] func(Stage[I, O]) Stage[I, O]

// Chain applies middlewares to a Stage in order, so the first
// middleware passed is the outermost wrapper.
func Chain[I, O any](stage Stage[I, O], mws ...Middleware[I, O]) Stage[I, O] {
	for i := len(mws) - 1; i >= 0; i-- {
		stage = mws[i](stage)
	}
	return stage
}
