// Package rerank implements C7: semantic cross-encoder re-ranking over
// the K1 shortlist, bounded by a worker pool (github.com/panjf2000/ants/v2,
// adapted from the teacher's ai/tokenizer worker-pool usage) and token
// truncation via github.com/pkoukk/tiktoken-go (adapted from the
// teacher's ai/tokenizer/tiktoken.go). Both deps are carried straight
// from Tangerg-lynx's go.mod.
package rerank

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pkoukk/tiktoken-go"

	"github.com/juliangdz/clawSearXNG/internal/errs"
	"github.com/juliangdz/clawSearXNG/internal/types"
)

// DefaultTimeout is the total deadline for one re-rank pass.
const DefaultTimeout = 5 * time.Second

// MaxTokensPerDoc truncates candidate text before it reaches the
// cross-encoder, per spec.md §4.7.
const MaxTokensPerDoc = 512

const (
	weightSemantic    = 0.45
	weightAuthority   = 0.20
	weightRecency     = 0.15
	weightEngineTrust = 0.10
	weightPosition    = 0.10

	// degradedNonSemanticSum is the sum of the four non-semantic
	// weights above; when the cross-encoder is unavailable they are
	// renormalized by dividing by this sum (spec.md §4.7).
	degradedNonSemanticSum = weightAuthority + weightRecency + weightEngineTrust + weightPosition
)

// CrossEncoder scores how relevant a candidate document is to query,
// returning a value in [0, 1].
type CrossEncoder interface {
	Score(ctx context.Context, query, document string) (float64, error)
}

// Reranker re-scores a K1 shortlist down to the final top-K2 results.
type Reranker struct {
	encoder  CrossEncoder
	pool     *ants.Pool
	encoding *tiktoken.Tiktoken
}

// New builds a Reranker backed by encoder, with a worker pool sized to
// GOMAXPROCS (spec.md §5's resource model).
func New(encoder CrossEncoder) (*Reranker, error) {
	pool, err := ants.NewPool(runtime.GOMAXPROCS(0))
	if err != nil {
		return nil, err
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &Reranker{encoder: encoder, pool: pool, encoding: enc}, nil
}

// Release frees the worker pool's goroutines.
func (r *Reranker) Release() {
	r.pool.Release()
}

// Rerank scores every candidate concurrently (bounded by the pool),
// selects the top k results, and degrades gracefully (spec.md §4.7):
// if the cross-encoder is unavailable for ANY candidate, semantic
// scores are set to 0 across the whole shortlist and the remaining
// weights are renormalized, rather than failing the request. The
// returned error, when non-nil, is always a RerankerDegraded signal
// for the caller to log/track — it is never fatal and the results are
// always fully populated regardless.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []types.ScoredHit, k int) ([]types.ScoredHit, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	semantic := make([]float64, len(candidates))
	degraded := false

	var wg sync.WaitGroup
	var mu sync.Mutex
	for i, cand := range candidates {
		i, cand := i, cand
		wg.Add(1)
		doc := r.document(cand)
		submitErr := r.pool.Submit(func() {
			defer wg.Done()
			score, err := r.encoder.Score(ctx, query, doc)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				degraded = true
				return
			}
			semantic[i] = score
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			degraded = true
			mu.Unlock()
		}
	}
	wg.Wait()

	results := make([]types.ScoredHit, len(candidates))
	copy(results, candidates)

	for i := range results {
		sem := semantic[i]
		if degraded {
			sem = 0
		}
		results[i].ScoreBreakdown.Semantic = sem
		results[i].FinalScore = finalScore(results[i].ScoreBreakdown, degraded)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		if results[i].ScoreBreakdown.Semantic != results[j].ScoreBreakdown.Semantic {
			return results[i].ScoreBreakdown.Semantic > results[j].ScoreBreakdown.Semantic
		}
		return results[i].Position() < results[j].Position()
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}

	if degraded {
		return results, errs.New(errs.RerankerDegraded, "cross-encoder unavailable", nil)
	}
	return results, nil
}

// document builds the cross-encoder input per spec.md §4.7: title and
// snippet concatenated, falling back to the title alone when the
// snippet is empty, then truncated to the token budget.
func (r *Reranker) document(cand types.ScoredHit) string {
	doc := cand.Title
	if cand.Snippet != "" {
		doc = cand.Title + " " + cand.Snippet
	}
	return r.truncate(doc)
}

func finalScore(b types.ScoreBreakdown, degraded bool) float64 {
	if degraded {
		return (weightAuthority*b.Authority + weightRecency*b.Recency +
			weightEngineTrust*b.EngineTrust + weightPosition*b.Position) / degradedNonSemanticSum
	}
	return weightSemantic*b.Semantic + weightAuthority*b.Authority +
		weightRecency*b.Recency + weightEngineTrust*b.EngineTrust + weightPosition*b.Position
}

func (r *Reranker) truncate(text string) string {
	tokens := r.encoding.Encode(text, nil, nil)
	if len(tokens) <= MaxTokensPerDoc {
		return text
	}
	return r.encoding.Decode(tokens[:MaxTokensPerDoc])
}
