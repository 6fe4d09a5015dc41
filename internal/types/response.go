package types

// Response is the schema-stable JSON payload returned to callers.
// Degradation signals (classifier/reranker/cache) are logged, never
// represented here — the response shape never changes based on which
// internal stage degraded.
type Response struct {
	Query         string      `json:"query"`
	ExpandedQuery string      `json:"expanded_query"`
	Intent        Intent      `json:"intent"`
	CacheHit      bool        `json:"cache_hit"`
	QueryTimeMs   float64     `json:"query_time_ms"`
	Results       []ScoredHit `json:"results"`
}

// HealthStatus is the payload for the external /health surface.
type HealthStatus struct {
	Status        string  `json:"status"` // "ok" | "degraded"
	Redis         string  `json:"redis"`
	SearXNG       string  `json:"searxng"`
	CrossEncoder  string  `json:"cross_encoder"` // "loaded" | "unavailable"
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// StatsSnapshot is the payload for the external /stats surface.
type StatsSnapshot struct {
	QueriesTotal    int64            `json:"queries_total"`
	CacheHitRate    float64          `json:"cache_hit_rate"`
	AvgLatencyMs    float64          `json:"avg_latency_ms"`
	QueriesByIntent map[Intent]int64 `json:"queries_by_intent"`
}
