package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFatal(t *testing.T) {
	t.Run("fatal kinds", func(t *testing.T) {
		assert.True(t, InvalidRequest.Fatal())
		assert.True(t, BackendUnavailable.Fatal())
		assert.True(t, Internal.Fatal())
	})
	t.Run("degradation kinds are not fatal", func(t *testing.T) {
		assert.False(t, ClassifierDegraded.Fatal())
		assert.False(t, RerankerDegraded.Fatal())
		assert.False(t, CacheDegraded.Fatal())
	})
}

func TestKindHTTPStatus(t *testing.T) {
	assert.Equal(t, 400, InvalidRequest.HTTPStatus())
	assert.Equal(t, 502, BackendUnavailable.HTTPStatus())
	assert.Equal(t, 500, Internal.HTTPStatus())
}

func TestKindOf(t *testing.T) {
	t.Run("unwraps a tagged error", func(t *testing.T) {
		err := New(BackendUnavailable, "fetch failed", errors.New("dial tcp: refused"))
		assert.Equal(t, BackendUnavailable, KindOf(err))
	})

	t.Run("errors that only embed a tagged error's text default to Internal", func(t *testing.T) {
		inner := New(CacheDegraded, "redis get", nil)
		wrapped := errors.New("context: " + inner.Error())
		assert.Equal(t, Internal, KindOf(wrapped))
	})

	t.Run("plain errors default to Internal", func(t *testing.T) {
		assert.Equal(t, Internal, KindOf(errors.New("boom")))
	})
}

func TestIs(t *testing.T) {
	err := New(ClassifierDegraded, "timeout", nil)
	assert.True(t, Is(err, ClassifierDegraded))
	assert.False(t, Is(err, CacheDegraded))
}
