// Package config loads the environment-variable table of spec.md §6.5
// using github.com/spf13/cast for lenient type coercion, the pattern
// and dependency the teacher's own config loading follows.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cast"
)

// Config is the fully resolved process configuration.
type Config struct {
	AnthropicAPIKey string
	RedisURL        string
	SearXNGURL      string
	CacheTTL        time.Duration
	MaxResults      int
	Port            string
	LogLevel        string
	Environment     string
}

const (
	defaultCacheTTLHours = 24
	defaultMaxResults    = 8
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultEnvironment   = "development"
)

// Load reads the process environment into a Config. ANTHROPIC_API_KEY
// is the only required variable; everything else falls back to a
// documented default.
func Load() (Config, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return Config{}, fmt.Errorf("config: ANTHROPIC_API_KEY is required")
	}

	ttlHours := defaultCacheTTLHours
	if v := os.Getenv("CACHE_TTL_HOURS"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: CACHE_TTL_HOURS: %w", err)
		}
		ttlHours = n
	}

	maxResults := defaultMaxResults
	if v := os.Getenv("MAX_RESULTS"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: MAX_RESULTS: %w", err)
		}
		maxResults = n
	}

	return Config{
		AnthropicAPIKey: apiKey,
		RedisURL:        envOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		SearXNGURL:      envOrDefault("SEARXNG_URL", "http://localhost:8888"),
		CacheTTL:        time.Duration(ttlHours) * time.Hour,
		MaxResults:      maxResults,
		Port:            envOrDefault("PORT", defaultPort),
		LogLevel:        envOrDefault("LOG_LEVEL", defaultLogLevel),
		Environment:     envOrDefault("ENVIRONMENT", defaultEnvironment),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
