package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliangdz/clawSearXNG/internal/types"
)

func TestAuthority(t *testing.T) {
	t.Run("tier A domain", func(t *testing.T) {
		assert.Equal(t, 1.00, Authority("arxiv.org"))
	})
	t.Run("tier B domain", func(t *testing.T) {
		assert.Equal(t, 0.85, Authority("github.com"))
	})
	t.Run("tier C domain", func(t *testing.T) {
		assert.Equal(t, 0.70, Authority("dev.to"))
	})
	t.Run("unknown domain defaults", func(t *testing.T) {
		assert.Equal(t, 0.50, Authority("some-random-blog.example"))
	})
}

func TestEngineTrust(t *testing.T) {
	t.Run("known engine", func(t *testing.T) {
		assert.Equal(t, 1.00, EngineTrust("arxiv"))
	})
	t.Run("unknown engine defaults", func(t *testing.T) {
		assert.Equal(t, defaultEngineTrust, EngineTrust("some_new_engine"))
	})
}

func TestRecency(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("absent date scores the fixed baseline", func(t *testing.T) {
		assert.Equal(t, recencyAbsent, Recency("", now))
	})

	t.Run("today scores 1", func(t *testing.T) {
		assert.InDelta(t, 1.0, Recency(now.Format("2006-01-02"), now), 0.001)
	})

	t.Run("future date clamps to age zero", func(t *testing.T) {
		future := now.AddDate(0, 0, 10).Format("2006-01-02")
		assert.InDelta(t, 1.0, Recency(future, now), 0.001)
	})

	t.Run("one year old is half", func(t *testing.T) {
		yearAgo := now.AddDate(-1, 0, 0).Format("2006-01-02")
		assert.InDelta(t, 0.5, Recency(yearAgo, now), 0.01)
	})

	t.Run("unparseable date falls back to baseline", func(t *testing.T) {
		assert.Equal(t, recencyAbsent, Recency("not-a-date", now))
	})

	t.Run("bare year-month resolves to the first of that month", func(t *testing.T) {
		got := Recency("2026-01", now)
		assert.InDelta(t, 1.0, got, 0.001)
		assert.NotEqual(t, recencyAbsent, got)
	})
}

func TestPosition(t *testing.T) {
	t.Run("position 1 scores 1", func(t *testing.T) {
		assert.Equal(t, 1.0, Position(1))
	})
	t.Run("later positions score lower", func(t *testing.T) {
		assert.Less(t, Position(5), Position(1))
	})
	t.Run("non-positive position clamps to 1", func(t *testing.T) {
		assert.Equal(t, Position(1), Position(0))
	})
}

func TestShortlistK1(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("truncates to K1 and sorts by coarse score descending", func(t *testing.T) {
		hits := make([]types.CanonicalHit, 0, K1+5)
		for i := 0; i < K1+5; i++ {
			hits = append(hits, types.CanonicalHit{
				RawHit: types.RawHit{
					Title:            "hit",
					Engine:           "duckduckgo",
					PositionInEngine: i + 1,
				},
				Domain:       "example.com",
				CanonicalURL: "https://example.com/" + string(rune('a'+i)),
			})
		}

		shortlist := ShortlistK1(hits, now)
		require.Len(t, shortlist, K1)
		for i := 1; i < len(shortlist); i++ {
			assert.GreaterOrEqual(t, shortlist[i-1].CoarseScore(), shortlist[i].CoarseScore())
		}
	})

	t.Run("earlier position outranks later position with otherwise equal metadata", func(t *testing.T) {
		hits := []types.CanonicalHit{
			{RawHit: types.RawHit{Title: "a", Engine: "bing", PositionInEngine: 2}, Domain: "example.com", CanonicalURL: "https://b.com"},
			{RawHit: types.RawHit{Title: "b", Engine: "bing", PositionInEngine: 1}, Domain: "example.com", CanonicalURL: "https://a.com"},
		}
		shortlist := ShortlistK1(hits, now)
		require.Len(t, shortlist, 2)
		assert.Equal(t, "https://a.com", shortlist[0].URL)
	})
}
