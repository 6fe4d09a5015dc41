// Package router implements C3: a pure, total function mapping an
// Intent onto an EnginePlan (spec.md §4.3). The registry is a closed
// internal/kv.KV literal, per spec.md §9's design note that the fixed
// table should be "a configurable constant table, not hardcoded
// scattered literals."
package router

import (
	"github.com/juliangdz/clawSearXNG/internal/kv"
	"github.com/juliangdz/clawSearXNG/internal/types"
)

// registry is the closed Intent -> EnginePlan table. Adding an engine
// is a recompilation-time change, not runtime config (spec.md §4.3).
var registry = kv.KV[types.Intent, types.EnginePlan]{
	types.IntentResearch: {
		Engines:    []string{"arxiv", "semantic_scholar", "duckduckgo"},
		Categories: []string{"science"},
	},
	types.IntentBiomedical: {
		Engines:    []string{"pubmed", "arxiv", "duckduckgo"},
		Categories: []string{"science"},
	},
	types.IntentCode: {
		Engines:    []string{"github", "stackoverflow", "duckduckgo"},
		Categories: []string{"it"},
	},
	types.IntentNews: {
		Engines:    []string{"bing_news", "duckduckgo_news", "duckduckgo"},
		Categories: []string{"news"},
	},
	types.IntentGeneral: {
		Engines:    []string{"duckduckgo", "bing", "brave"},
		Categories: []string{"general"},
	},
}

// Route returns the EnginePlan for intent. It is total over the
// Intent enum: any value not in the registry (which should only be
// possible if a caller bypasses types.NormalizeIntent) falls back to
// the general plan, per spec.md §8 invariant 6.
func Route(intent types.Intent) types.EnginePlan {
	plan, ok := registry.Value(intent)
	if !ok {
		plan = registry.Get(types.IntentGeneral)
	}
	// Defensive copy: callers must not mutate the shared registry slices.
	engines := make([]string, len(plan.Engines))
	copy(engines, plan.Engines)
	categories := make([]string, len(plan.Categories))
	copy(categories, plan.Categories)
	return types.EnginePlan{Engines: engines, Categories: categories}
}
