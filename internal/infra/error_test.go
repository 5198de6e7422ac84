//go:build unit

package infra_test

import (
	"errors"
	"testing"

	"food-rescue-api/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapPgErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind infra.RepositoryErrorKind
	}{
		{name: "no rows", err: pgx.ErrNoRows, kind: infra.KindNotFound},
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, kind: infra.KindDuplicateKey},
		{name: "foreign key", err: &pgconn.PgError{Code: "23503"}, kind: infra.KindForeignKeyViolated},
		{name: "check", err: &pgconn.PgError{Code: "23514"}, kind: infra.KindCheckViolation},
		{name: "anything else", err: errors.New("conn reset"), kind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := infra.WrapPgErr("find offer", tt.err)
			assert.True(t, infra.IsKind(err, tt.kind))
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), "find offer")
		})
	}
}

func TestIsKind_Unrelated(t *testing.T) {
	assert.False(t, infra.IsKind(errors.New("x"), infra.KindNotFound))
	assert.False(t, infra.IsKind(nil, infra.KindNotFound))
}
