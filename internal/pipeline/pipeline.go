// Package pipeline implements C8's orchestration: sequencing C1
// through C7, request coalescing via golang.org/x/sync/singleflight
// (the dependency pulled straight from the teacher's own go.mod), and
// the fatal-vs-degradation error split of spec.md §7.
package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/juliangdz/clawSearXNG/internal/backend"
	"github.com/juliangdz/clawSearXNG/internal/cache"
	"github.com/juliangdz/clawSearXNG/internal/cachekey"
	"github.com/juliangdz/clawSearXNG/internal/classifier"
	"github.com/juliangdz/clawSearXNG/internal/errs"
	"github.com/juliangdz/clawSearXNG/internal/normalize"
	"github.com/juliangdz/clawSearXNG/internal/rerank"
	"github.com/juliangdz/clawSearXNG/internal/router"
	"github.com/juliangdz/clawSearXNG/internal/scoring"
	"github.com/juliangdz/clawSearXNG/internal/stats"
	"github.com/juliangdz/clawSearXNG/internal/types"
)

// Budget is the total wall-clock ceiling for one request (spec.md §5).
const Budget = 15 * time.Second

// degradationWindow is how long a recorded degradation signal keeps
// Health reporting it as persistent (see DESIGN.md, internal/pipeline).
const degradationWindow = 2 * time.Minute

// Pipeline wires every stage collaborator together and exposes the
// three public operations spec.md §6.1 names.
type Pipeline struct {
	cache      cache.Store
	classifier classifier.Classifier
	fetcher    backend.Fetcher
	reranker   *rerank.Reranker
	stats      stats.Recorder
	log        *zap.Logger
	group      singleflight.Group
	defaultK   int
	cacheTTL   time.Duration
	startedAt  time.Time

	degMu       sync.Mutex
	degradation map[string]time.Time
}

// New builds a Pipeline from its collaborators. defaultK is the
// fallback result count (spec.md §6.5's MAX_RESULTS) used when a
// request omits its own limit; cacheTTL is spec.md §6.5's
// CACHE_TTL_HOURS, already converted to a time.Duration.
func New(c cache.Store, cl classifier.Classifier, f backend.Fetcher, r *rerank.Reranker, s stats.Recorder, log *zap.Logger, defaultK int, cacheTTL time.Duration) *Pipeline {
	return &Pipeline{
		cache:       c,
		classifier:  cl,
		fetcher:     f,
		reranker:    r,
		stats:       s,
		log:         log,
		defaultK:    defaultK,
		cacheTTL:    cacheTTL,
		startedAt:   time.Now(),
		degradation: map[string]time.Time{},
	}
}

// recordDegradation marks signal as having just occurred, for Health
// to consult.
func (p *Pipeline) recordDegradation(signal string) {
	p.degMu.Lock()
	defer p.degMu.Unlock()
	p.degradation[signal] = time.Now()
}

// recentlyDegraded reports whether signal was recorded within
// degradationWindow.
func (p *Pipeline) recentlyDegraded(signal string) bool {
	p.degMu.Lock()
	defer p.degMu.Unlock()
	at, ok := p.degradation[signal]
	return ok && time.Since(at) < degradationWindow
}

// Search runs one request end to end, coalescing concurrent identical
// requests behind the fingerprint (spec.md §4.1).
func (p *Pipeline) Search(ctx context.Context, req types.Request) (types.Response, error) {
	if !req.Valid() {
		return types.Response{}, errs.New(errs.InvalidRequest, "invalid request", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, Budget)
	defer cancel()

	fp := cachekey.Fingerprint(req)

	v, err, _ := p.group.Do(fp, func() (interface{}, error) {
		return p.run(ctx, req, fp)
	})
	if err != nil {
		return types.Response{}, err
	}
	return v.(types.Response), nil
}

func (p *Pipeline) run(ctx context.Context, req types.Request, fp string) (types.Response, error) {
	start := time.Now()
	var signals []string

	if cached, hit, err := p.lookupCache(ctx, fp); err != nil {
		signals = append(signals, "cache_degraded")
		p.recordDegradation("cache_degraded")
	} else if hit {
		cached.CacheHit = true
		cached.QueryTimeMs = float64(time.Since(start).Milliseconds())
		p.stats.Record(ctx, cached.Intent, true, cached.QueryTimeMs)
		return cached, nil
	}

	expanded, err := p.classifier.Classify(ctx, req.Query)
	if err != nil {
		signals = append(signals, "classifier_degraded")
		p.recordDegradation("classifier_degraded")
	}

	plan := router.Route(expanded.Intent)

	rawHits, err := p.fetcher.Fetch(ctx, expanded.Text, plan)
	if err != nil {
		return types.Response{}, err
	}

	canonical := normalize.Canonicalize(rawHits)
	deduped := normalize.Dedup(canonical)

	shortlist := scoring.ShortlistK1(deduped, time.Now())

	k := req.Limit
	if k <= 0 {
		k = p.defaultK
	}
	ranked, err := p.reranker.Rerank(ctx, expanded.Text, shortlist, k)
	if err != nil {
		signals = append(signals, "reranker_degraded")
		p.recordDegradation("reranker_degraded")
	}

	resp := types.Response{
		Query:         req.Query,
		ExpandedQuery: expanded.Text,
		Intent:        expanded.Intent,
		CacheHit:      false,
		QueryTimeMs:   float64(time.Since(start).Milliseconds()),
		Results:       ranked,
	}

	if err := p.cache.Store(ctx, fp, resp, p.cacheTTL); err != nil {
		signals = append(signals, "cache_degraded")
		p.recordDegradation("cache_degraded")
	}

	if len(signals) > 0 {
		p.log.Warn("request completed with degradation", zap.Strings("signals", signals))
	}

	p.stats.Record(ctx, resp.Intent, false, resp.QueryTimeMs)
	return resp, nil
}

func (p *Pipeline) lookupCache(ctx context.Context, fp string) (types.Response, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	return p.cache.Lookup(ctx, fp)
}

// Health reports collaborator reachability for spec.md §6.1's /health.
// status is "ok" iff both the cache store and the backend are
// reachable right now; cross_encoder instead reflects whether reranker
// degradation was recently recorded, since a single Ping can't observe
// an LLM-backed cross-encoder's health without spending a real call.
func (p *Pipeline) Health(ctx context.Context) types.HealthStatus {
	status := types.HealthStatus{
		Status:        "ok",
		Redis:         "ok",
		SearXNG:       "ok",
		CrossEncoder:  "loaded",
		UptimeSeconds: time.Since(p.startedAt).Seconds(),
	}

	cacheErr := p.cache.Ping(ctx)
	backendErr := p.fetcher.Ping(ctx)

	if cacheErr != nil {
		status.Redis = "unavailable"
	}
	if backendErr != nil {
		status.SearXNG = "unavailable"
	}
	if cacheErr != nil || backendErr != nil {
		status.Status = "degraded"
	}
	if p.recentlyDegraded("reranker_degraded") {
		status.CrossEncoder = "unavailable"
	}

	return status
}

// Stats returns the running counters for spec.md §6.1's /stats.
func (p *Pipeline) Stats(ctx context.Context) (types.StatsSnapshot, error) {
	return p.stats.Snapshot(ctx)
}
