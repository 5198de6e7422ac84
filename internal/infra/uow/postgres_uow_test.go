//go:build unit

package uow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"food-rescue-api/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, want: true},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, want: true},
		{name: "wrapped deadlock", err: fmt.Errorf("decrement: %w", &pgconn.PgError{Code: "40P01"}), want: true},
		{name: "marked commit failure", err: errs.Mark(&pgconn.PgError{Code: "40001"}, errTransactionCommit), want: true},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}, want: false},
		{name: "plain error", err: errors.New("sold out"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestShouldRetry_StopsAtMax(t *testing.T) {
	err := &pgconn.PgError{Code: "40001"}
	assert.True(t, shouldRetry(err, 0, maxRetries))
	assert.True(t, shouldRetry(err, maxRetries-1, maxRetries))
	assert.False(t, shouldRetry(err, maxRetries, maxRetries))
}

func TestCalculateBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt := 0; attempt < 4; attempt++ {
		floor := time.Duration(1<<attempt) * base
		for i := 0; i < 50; i++ {
			got := calculateBackoff(attempt, base)
			assert.GreaterOrEqual(t, got, floor)
			assert.Less(t, got, floor+floor/5+time.Nanosecond)
		}
	}
}

func TestCryptoRandInt63n(t *testing.T) {
	assert.Equal(t, int64(0), cryptoRandInt63n(0))
	assert.Equal(t, int64(0), cryptoRandInt63n(-5))
	for i := 0; i < 100; i++ {
		v := cryptoRandInt63n(7)
		assert.GreaterOrEqual(t, v, int64(0))
		assert.Less(t, v, int64(7))
	}
}
