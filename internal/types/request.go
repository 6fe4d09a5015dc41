// Package types holds the data model shared across every pipeline stage:
// the inbound Request, the classifier's ExpandedQuery, the router's
// EnginePlan, the backend's RawHit, and the scored/assembled Response.
package types

import (
	"strings"

	"github.com/google/uuid"
)

// Intent is the closed set of topical labels that drives engine routing.
type Intent string

const (
	IntentResearch   Intent = "research"
	IntentBiomedical Intent = "biomedical"
	IntentCode       Intent = "code"
	IntentNews       Intent = "news"
	IntentGeneral    Intent = "general"
)

// NormalizeIntent maps any string onto the closed Intent enum, falling back to
// IntentGeneral for anything unrecognized (including case variants).
func NormalizeIntent(s string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentResearch:
		return IntentResearch
	case IntentBiomedical:
		return IntentBiomedical
	case IntentCode:
		return IntentCode
	case IntentNews:
		return IntentNews
	default:
		return IntentGeneral
	}
}

const (
	MinQueryLen = 1
	MaxQueryLen = 512
	MinLimit    = 1
	MaxLimit    = 20
)

// Request is the inbound, validated search request.
type Request struct {
	Query      string
	Limit      int
	DomainHint string

	// RequestID correlates log lines for one pipeline run. It is never
	// part of the fingerprint and never serialized into Response.
	RequestID string
}

// NewRequest trims and clamps raw inputs. defaultLimit is substituted
// when limit <= 0 (caller omitted it); it is then clamped to [MinLimit,MaxLimit].
func NewRequest(query string, limit int, domainHint string, defaultLimit int) Request {
	q := strings.TrimSpace(query)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Request{
		Query:      q,
		Limit:      limit,
		DomainHint: strings.TrimSpace(domainHint),
		RequestID:  uuid.NewString(),
	}
}

// Valid reports whether the request satisfies spec.md §3's invariants.
func (r Request) Valid() bool {
	n := len(r.Query)
	return n >= MinQueryLen && n <= MaxQueryLen
}

// ExpandedQuery is the classifier's output: an intent label and an
// expanded query text (falls back to the raw query when empty).
type ExpandedQuery struct {
	Intent Intent
	Text   string
}

// EnginePlan is the router's output: which backend engines and
// categories to query for a given intent.
type EnginePlan struct {
	Engines    []string
	Categories []string
}
