// Package normalize implements C5: URL canonicalization and the
// exact/near-duplicate dedup pass (spec.md §4.5). The tracking-param
// registry follows the same closed internal/kv.KV pattern used by
// internal/router for engine plans. github.com/samber/lo supplies the
// slice helpers (Uniq/Map), the dependency pulled from the
// jordigilh-kubernaut example's go.mod.
package normalize

import (
	"net/url"
	"sort"
	"strings"

	"github.com/juliangdz/clawSearXNG/internal/kv"
	"github.com/juliangdz/clawSearXNG/internal/types"
)

// trackingParams is the closed set of query parameters stripped during
// canonicalization (spec.md §4.5). utm_* is matched by prefix; the rest
// are exact names.
var trackingParams = kv.KV[string, bool]{
	"fbclid":  true,
	"gclid":   true,
	"mc_eid":  true,
	"mc_cid":  true,
	"ref":     true,
	"ref_src": true,
	"ref_url": true,
}

// CanonicalURL applies spec.md §4.5's canonicalization rules:
// lowercase scheme/host, strip default ports, strip the fragment,
// strip tracking params, sort remaining query params, collapse
// duplicate slashes in the path, and trim a single trailing slash.
func CanonicalURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(stripDefaultPort(u))
	u.Fragment = ""

	q := u.Query()
	for key := range q {
		lower := strings.ToLower(key)
		if trackingParams.ContainsKey(lower) || strings.HasPrefix(lower, "utm_") {
			q.Del(key)
		}
	}
	u.RawQuery = sortedQuery(q)

	u.Path = collapseSlashes(u.Path)
	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String()
}

func stripDefaultPort(u *url.URL) string {
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		return u.Host
	}
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		return host
	}
	return host + ":" + port
}

func sortedQuery(q url.Values) string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		vals := q[k]
		sort.Strings(vals)
		for _, v := range vals {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

func collapseSlashes(path string) string {
	if path == "" {
		return "/"
	}
	var b strings.Builder
	prevSlash := false
	for _, r := range path {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Domain extracts the lowercase hostname from a canonical URL.
func Domain(canonicalURL string) string {
	u, err := url.Parse(canonicalURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
