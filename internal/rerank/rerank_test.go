package rerank

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliangdz/clawSearXNG/internal/errs"
	"github.com/juliangdz/clawSearXNG/internal/types"
)

type scoreFunc func(ctx context.Context, query, document string) (float64, error)

func (f scoreFunc) Score(ctx context.Context, query, document string) (float64, error) {
	return f(ctx, query, document)
}

func candidates() []types.ScoredHit {
	a := types.ScoredHit{Title: "a", URL: "https://a.com", Snippet: "alpha"}
	a.SetPosition(1)
	b := types.ScoredHit{Title: "b", URL: "https://b.com", Snippet: "beta"}
	b.SetPosition(2)
	return []types.ScoredHit{a, b}
}

func TestRerank(t *testing.T) {
	t.Run("scores the title+snippet pair, not the snippet alone", func(t *testing.T) {
		var seen []string
		encoder := scoreFunc(func(_ context.Context, _, doc string) (float64, error) {
			seen = append(seen, doc)
			return 0.5, nil
		})
		r, err := New(encoder)
		require.NoError(t, err)
		defer r.Release()

		_, err = r.Rerank(context.Background(), "q", candidates(), 2)
		require.NoError(t, err)
		assert.Contains(t, seen, "a alpha")
		assert.Contains(t, seen, "b beta")
	})

	t.Run("falls back to the title alone when the snippet is empty", func(t *testing.T) {
		hit := types.ScoredHit{Title: "bare title", URL: "https://a.com"}
		var seen string
		encoder := scoreFunc(func(_ context.Context, _, doc string) (float64, error) {
			seen = doc
			return 0.5, nil
		})
		r, err := New(encoder)
		require.NoError(t, err)
		defer r.Release()

		_, err = r.Rerank(context.Background(), "q", []types.ScoredHit{hit}, 1)
		require.NoError(t, err)
		assert.Equal(t, "bare title", seen)
	})

	t.Run("orders by final score descending", func(t *testing.T) {
		encoder := scoreFunc(func(_ context.Context, _, doc string) (float64, error) {
			if strings.Contains(doc, "beta") {
				return 0.9, nil
			}
			return 0.1, nil
		})
		r, err := New(encoder)
		require.NoError(t, err)
		defer r.Release()

		ranked, err := r.Rerank(context.Background(), "q", candidates(), 2)
		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Equal(t, "https://b.com", ranked[0].URL)
	})

	t.Run("truncates to k", func(t *testing.T) {
		encoder := scoreFunc(func(context.Context, string, string) (float64, error) { return 0.5, nil })
		r, err := New(encoder)
		require.NoError(t, err)
		defer r.Release()

		ranked, err := r.Rerank(context.Background(), "q", candidates(), 1)
		require.NoError(t, err)
		assert.Len(t, ranked, 1)
	})

	t.Run("degrades gracefully when the cross-encoder fails", func(t *testing.T) {
		encoder := scoreFunc(func(context.Context, string, string) (float64, error) {
			return 0, errors.New("unavailable")
		})
		r, err := New(encoder)
		require.NoError(t, err)
		defer r.Release()

		ranked, err := r.Rerank(context.Background(), "q", candidates(), 2)
		require.Error(t, err)
		assert.Equal(t, errs.RerankerDegraded, errs.KindOf(err))
		require.Len(t, ranked, 2)
		for _, hit := range ranked {
			assert.Equal(t, 0.0, hit.ScoreBreakdown.Semantic)
		}
	})
}
