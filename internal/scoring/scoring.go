// Package scoring implements C6: the metadata-only coarse score used
// to shortlist K1 candidates before semantic re-ranking (spec.md
// §4.6). The authority/engine-trust tables follow the same closed
// internal/kv.KV registry pattern used by internal/router, per
// DESIGN.md's resolution of spec.md's open question on fixed tables.
package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/juliangdz/clawSearXNG/internal/kv"
	"github.com/juliangdz/clawSearXNG/internal/types"
)

// K1 is the shortlist size handed to the semantic re-ranker.
const K1 = 12

const (
	weightAuthority   = 0.35
	weightRecency     = 0.20
	weightEngineTrust = 0.25
	weightPosition    = 0.20

	recencyAbsent = 0.30
	recencyHalfLife = 365.0
)

var authorityTierA = kv.KV[string, bool]{
	"arxiv.org": true, "nature.com": true, "science.org": true,
	"nejm.org": true, "nih.gov": true, "ieee.org": true, "acm.org": true,
}

var authorityTierB = kv.KV[string, bool]{
	"github.com": true, "stackoverflow.com": true, "semanticscholar.org": true,
	"wikipedia.org": true, "nytimes.com": true, "bbc.co.uk": true, "reuters.com": true,
}

var authorityTierC = kv.KV[string, bool]{
	"medium.com": true, "dev.to": true, "arstechnica.com": true,
	"theguardian.com": true, "techcrunch.com": true,
}

var engineTrust = kv.KV[string, float64]{
	"arxiv":           1.00,
	"pubmed":          1.00,
	"semantic_scholar": 1.00,
	"github":          0.90,
	"stackoverflow":   0.90,
	"bing_news":       0.80,
	"duckduckgo_news": 0.80,
	"duckduckgo":      0.75,
	"bing":            0.75,
	"brave":           0.75,
}

const defaultEngineTrust = 0.60

// Authority returns the authority weight for a domain per the closed
// tier table (spec.md §4.6); unknown domains score 0.50.
func Authority(domain string) float64 {
	switch {
	case authorityTierA.ContainsKey(domain):
		return 1.00
	case authorityTierB.ContainsKey(domain):
		return 0.85
	case authorityTierC.ContainsKey(domain):
		return 0.70
	default:
		return 0.50
	}
}

// EngineTrust returns the trust weight for a source engine; unknown
// engines score the default.
func EngineTrust(engine string) float64 {
	return engineTrust.GetOrDefault(engine, defaultEngineTrust)
}

// Recency scores publishedDate against now: absent dates score
// recencyAbsent; future dates clamp to age 0 (score 1); otherwise an
// exponential half-life of one year.
func Recency(publishedDate string, now time.Time) float64 {
	if publishedDate == "" {
		return recencyAbsent
	}
	t, err := parseDate(publishedDate)
	if err != nil {
		return recencyAbsent
	}
	ageDays := now.Sub(t).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	score := math.Pow(0.5, ageDays/recencyHalfLife)
	return clamp01(score)
}

// parseDate tries every layout spec.md §3 allows for published_date:
// full timestamps, "YYYY-MM-DD", and the bare "YYYY-MM" (which Parse
// resolves to the first of that month).
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02T15:04:05", "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &time.ParseError{Layout: "known", Value: s}
}

// Position scores 1-indexed position_in_engine; 1/(1+ln(p)).
func Position(position int) float64 {
	if position < 1 {
		position = 1
	}
	score := 1 / (1 + math.Log(float64(position)))
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Score computes the full ScoreBreakdown and coarse weighted sum for
// one candidate at evaluation time now.
func Score(hit types.CanonicalHit, now time.Time) types.ScoredHit {
	authority := Authority(hit.Domain)
	recency := Recency(hit.PublishedDate, now)
	trust := EngineTrust(hit.Engine)
	position := Position(hit.PositionInEngine)

	coarse := weightAuthority*authority + weightRecency*recency +
		weightEngineTrust*trust + weightPosition*position

	scored := types.ScoredHit{
		Title:         hit.Title,
		URL:           hit.CanonicalURL,
		Snippet:       hit.Snippet,
		Domain:        hit.Domain,
		Engine:        hit.Engine,
		PublishedDate: hit.PublishedDate,
		ScoreBreakdown: types.ScoreBreakdown{
			Authority:   authority,
			Recency:     recency,
			EngineTrust: trust,
			Position:    position,
		},
	}
	scored.SetCoarseScore(coarse)
	scored.SetPosition(hit.PositionInEngine)
	return scored
}

// ShortlistK1 scores every candidate and returns the top K1 by coarse
// score, breaking ties by earlier position then lexicographic
// canonical URL (spec.md §4.6).
func ShortlistK1(hits []types.CanonicalHit, now time.Time) []types.ScoredHit {
	scored := make([]types.ScoredHit, 0, len(hits))
	for _, h := range hits {
		scored = append(scored, Score(h, now))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].CoarseScore() != scored[j].CoarseScore() {
			return scored[i].CoarseScore() > scored[j].CoarseScore()
		}
		if scored[i].Position() != scored[j].Position() {
			return scored[i].Position() < scored[j].Position()
		}
		return scored[i].URL < scored[j].URL
	})

	if len(scored) > K1 {
		scored = scored[:K1]
	}
	return scored
}
