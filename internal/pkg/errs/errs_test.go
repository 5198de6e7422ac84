//go:build unit

package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"food-rescue-api/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

type kindError struct{ kind string }

func (e *kindError) Error() string { return e.kind }

func TestMark(t *testing.T) {
	sentinel := errs.New("sold out")
	other := errs.New("forbidden")
	cause := errors.New("update offers: 0 rows")

	t.Run("marked error matches sentinel through both Is functions", func(t *testing.T) {
		marked := errs.Mark(cause, sentinel)
		assert.True(t, errors.Is(marked, sentinel))
		assert.True(t, errs.Is(marked, sentinel))
		assert.ErrorIs(t, marked, sentinel)
		assert.False(t, errors.Is(marked, other))
		assert.False(t, errs.Is(marked, other))
	})

	t.Run("cause stays reachable", func(t *testing.T) {
		marked := errs.Mark(cause, sentinel)
		assert.True(t, errors.Is(marked, cause))
		assert.Equal(t, cause.Error(), marked.Error())
	})

	t.Run("typed cause survives errors.As", func(t *testing.T) {
		marked := errs.Mark(&kindError{kind: "NOT_FOUND"}, sentinel)
		var ke *kindError
		assert.True(t, errors.As(marked, &ke))
		assert.Equal(t, "NOT_FOUND", ke.kind)
	})

	t.Run("mark survives further wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("pay: %w", errs.Mark(cause, sentinel))
		assert.True(t, errors.Is(wrapped, sentinel))
		assert.True(t, errs.Is(errs.Wrap(wrapped, "handler"), sentinel))
	})

	t.Run("marking a sentinel with another sentinel matches both", func(t *testing.T) {
		marked := errs.Mark(other, sentinel)
		assert.True(t, errors.Is(marked, other))
		assert.True(t, errors.Is(marked, sentinel))
	})

	t.Run("nil cause returns the sentinel itself", func(t *testing.T) {
		assert.Same(t, sentinel, errs.Mark(nil, sentinel))
	})
}

func TestWrap(t *testing.T) {
	assert.NoError(t, errs.Wrap(nil, "ignored"))

	base := errors.New("connection refused")
	wrapped := errs.Wrap(base, "find offer")
	assert.True(t, errs.Is(wrapped, base))
	assert.Equal(t, "find offer: connection refused", wrapped.Error())
}
