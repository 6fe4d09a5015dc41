package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIntent(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		assert.Equal(t, IntentCode, NormalizeIntent("code"))
	})
	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, IntentNews, NormalizeIntent("NEWS"))
	})
	t.Run("unknown falls back to general", func(t *testing.T) {
		assert.Equal(t, IntentGeneral, NormalizeIntent("astrology"))
	})
}

func TestNewRequest(t *testing.T) {
	t.Run("trims query and domain hint", func(t *testing.T) {
		r := NewRequest("  go channels  ", 5, "  code  ", 8)
		assert.Equal(t, "go channels", r.Query)
		assert.Equal(t, "code", r.DomainHint)
	})

	t.Run("substitutes the default limit when omitted", func(t *testing.T) {
		r := NewRequest("q", 0, "", 8)
		assert.Equal(t, 8, r.Limit)
	})

	t.Run("clamps limit to MaxLimit", func(t *testing.T) {
		r := NewRequest("q", 999, "", 8)
		assert.Equal(t, MaxLimit, r.Limit)
	})

	t.Run("assigns a request id", func(t *testing.T) {
		r := NewRequest("q", 1, "", 8)
		assert.NotEmpty(t, r.RequestID)
	})
}

func TestRequestValid(t *testing.T) {
	t.Run("empty query is invalid", func(t *testing.T) {
		assert.False(t, Request{Query: ""}.Valid())
	})
	t.Run("over-length query is invalid", func(t *testing.T) {
		assert.False(t, Request{Query: strings.Repeat("a", MaxQueryLen+1)}.Valid())
	})
	t.Run("well-formed query is valid", func(t *testing.T) {
		assert.True(t, Request{Query: "go channels"}.Valid())
	})
}
