package normalize

import (
	"strings"

	"github.com/samber/lo"

	"github.com/juliangdz/clawSearXNG/internal/types"
)

// similarityThreshold is spec.md §4.5's near-duplicate cutoff.
const similarityThreshold = 0.85

// Canonicalize converts raw backend hits to CanonicalHits, attaching
// domain and canonical_url.
func Canonicalize(hits []types.RawHit) []types.CanonicalHit {
	return lo.Map(hits, func(h types.RawHit, _ int) types.CanonicalHit {
		canonical := CanonicalURL(h.URL)
		return types.CanonicalHit{
			RawHit:       h,
			Domain:       Domain(canonical),
			CanonicalURL: canonical,
		}
	})
}

// Dedup removes exact and near-duplicate hits per spec.md §4.5:
// exact duplicates (same canonical_url) keep the earliest-seen entry
// and merge in any additional engines; near-duplicates (LCS title-token
// similarity >= similarityThreshold) keep the earlier-position entry.
func Dedup(hits []types.CanonicalHit) []types.CanonicalHit {
	exact := dedupExact(hits)
	return dedupNear(exact)
}

func dedupExact(hits []types.CanonicalHit) []types.CanonicalHit {
	seen := make(map[string]int, len(hits))
	out := make([]types.CanonicalHit, 0, len(hits))
	for _, h := range hits {
		if idx, ok := seen[h.CanonicalURL]; ok {
			out[idx].Engine = mergeEngines(out[idx].Engine, h.Engine)
			continue
		}
		seen[h.CanonicalURL] = len(out)
		out = append(out, h)
	}
	return out
}

func mergeEngines(existing, extra string) string {
	if existing == extra {
		return existing
	}
	engines := lo.Uniq(append(strings.Split(existing, ","), strings.Split(extra, ",")...))
	return strings.Join(engines, ",")
}

func dedupNear(hits []types.CanonicalHit) []types.CanonicalHit {
	kept := make([]types.CanonicalHit, 0, len(hits))
	keptTokens := make([][]string, 0, len(hits))

	for _, h := range hits {
		tokens := titleTokens(h.Title)
		isDup := false
		for i, existing := range keptTokens {
			if tokenSimilarity(tokens, existing) >= similarityThreshold {
				if h.PositionInEngine < kept[i].PositionInEngine {
					kept[i] = h
					keptTokens[i] = tokens
				}
				isDup = true
				break
			}
		}
		if !isDup {
			kept = append(kept, h)
			keptTokens = append(keptTokens, tokens)
		}
	}
	return kept
}

// titleTokens tokenizes a title into its ordered, duplicate-preserving
// sequence of lowercase word tokens. Order and multiplicity matter: the
// similarity measure below is a longest-common-subsequence over this
// exact sequence, not a set.
func titleTokens(title string) []string {
	lower := strings.ToLower(title)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	})
}

// tokenSimilarity is spec.md §4.5's literal near-duplicate measure:
// the length of the longest common subsequence of tokens, divided by
// the length of the longer of the two token sequences.
func tokenSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 0
	}
	return float64(lcsLength(a, b)) / float64(longer)
}

// lcsLength computes the length of the longest common subsequence of a
// and b via the standard O(len(a)*len(b)) dynamic program.
func lcsLength(a, b []string) int {
	dp := make([][]int, len(a)+1)
	for i := range dp {
		dp[i] = make([]int, len(b)+1)
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}
	return dp[len(a)][len(b)]
}
