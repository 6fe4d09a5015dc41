// Package backend implements C4: one HTTP GET to the meta-search
// backend, wrapped in a circuit breaker so repeated failures fail fast
// without ever retrying the call itself (spec.md §4.4 explicitly
// forbids retries; a breaker only short-circuits *subsequent* calls
// once a failure threshold trips, which is a different thing).
// github.com/sony/gobreaker is the dependency pulled from the
// jordigilh-kubernaut example's go.mod.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"

	"github.com/juliangdz/clawSearXNG/internal/errs"
	"github.com/juliangdz/clawSearXNG/internal/types"
)

// DefaultTimeout is the per-request deadline spec.md §4.4/§5 names.
const DefaultTimeout = 8 * time.Second

// Fetcher is the narrow contract the pipeline depends on.
type Fetcher interface {
	Fetch(ctx context.Context, query string, plan types.EnginePlan) ([]types.RawHit, error)
	Ping(ctx context.Context) error
}

// SearXNG fetches results from a locally running meta-search backend
// exposing a SearXNG-compatible JSON API.
type SearXNG struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewSearXNG builds a Fetcher against baseURL with the given HTTP
// client (nil selects a client with DefaultTimeout).
func NewSearXNG(baseURL string, httpClient *http.Client) *SearXNG {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "searxng-backend",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &SearXNG{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient, breaker: breaker}
}

// Fetch implements Fetcher. Any failure here is fatal to the request
// (spec.md §4.4): transport error, non-2xx, malformed body, or an
// open circuit all surface as BackendUnavailable.
func (s *SearXNG) Fetch(ctx context.Context, query string, plan types.EnginePlan) ([]types.RawHit, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	reqURL := s.buildURL(query, plan)

	body, err := s.breaker.Execute(func() ([]byte, error) {
		return s.doGET(ctx, reqURL)
	})
	if err != nil {
		return nil, errs.New(errs.BackendUnavailable, "searxng fetch", err)
	}

	hits, err := parseHits(body)
	if err != nil {
		return nil, errs.New(errs.BackendUnavailable, "searxng parse", err)
	}
	return hits, nil
}

// Ping reports backend reachability for spec.md §6.1's /health without
// issuing a real request: an open breaker already means the backend
// has failed enough consecutive times to be considered unreachable, so
// Health can consult the breaker's own state rather than racing it
// with a second live call.
func (s *SearXNG) Ping(_ context.Context) error {
	if s.breaker.State() == gobreaker.StateOpen {
		return errs.New(errs.BackendUnavailable, "circuit open", nil)
	}
	return nil
}

func (s *SearXNG) buildURL(query string, plan types.EnginePlan) string {
	v := url.Values{}
	v.Set("q", query)
	v.Set("format", "json")
	v.Set("engines", strings.Join(plan.Engines, ","))
	v.Set("categories", strings.Join(plan.Categories, ","))
	return s.baseURL + "/search?" + v.Encode()
}

func (s *SearXNG) doGET(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	buf := make([]byte, 0, 64*1024)
	for {
		chunk := make([]byte, 32*1024)
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if readErr != nil {
			break
		}
	}
	return buf, nil
}

// backendResult mirrors spec.md §6.2's consumed schema.
type backendResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	Engine        string `json:"engine"`
	PublishedDate string `json:"publishedDate"`
}

// parseHits decodes the backend JSON body into RawHits, assigning
// position_in_engine per-engine by appearance order (spec.md §4.4).
// Hits with invalid/absent URLs are dropped, per spec.md §3.
func parseHits(body []byte) ([]types.RawHit, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON body")
	}

	var payload struct {
		Results []backendResult `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	positions := map[string]int{}
	hits := make([]types.RawHit, 0, len(payload.Results))
	for _, r := range payload.Results {
		if r.Title == "" || !validAbsoluteHTTPURL(r.URL) {
			continue
		}
		positions[r.Engine]++
		hits = append(hits, types.RawHit{
			Title:            r.Title,
			URL:              r.URL,
			Snippet:          r.Content,
			Engine:           r.Engine,
			PublishedDate:    r.PublishedDate,
			PositionInEngine: positions[r.Engine],
		})
	}
	return hits, nil
}

func validAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
