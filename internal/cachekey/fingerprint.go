// Package cachekey computes the stable cache fingerprint for a Request
// (spec.md §4.1): a SHA-256 digest over the normalized query, limit,
// and domain hint, rendered as lowercase hex. Grounded on the
// teacher's own ID-hashing idiom (Tangerg-lynx/ai/providers/document/
// idgenerators/sha256.go).
package cachekey

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/juliangdz/clawSearXNG/internal/types"
)

// normalizeQuery lowercases and collapses whitespace, per spec.md §4.1.
func normalizeQuery(q string) string {
	fields := strings.Fields(strings.ToLower(q))
	return strings.Join(fields, " ")
}

// Fingerprint returns the stable cache key for r: a 256-bit digest of
// (normalized_query, limit, domain_hint) as lowercase hex. Collisions
// are treated as impossible, per spec.md §4.1.
func Fingerprint(r types.Request) string {
	material := fmt.Sprintf("q=%s\nlimit=%d\ndomain_hint=%s", normalizeQuery(r.Query), r.Limit, r.DomainHint)
	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}
