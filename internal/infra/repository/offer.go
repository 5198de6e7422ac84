package repository

import (
	"context"

	"food-rescue-api/internal/infra"
	"food-rescue-api/internal/infra/db"

	"github.com/google/uuid"
)

const (
	decrementOfferSQL = `UPDATE offers
SET qty_available = qty_available - 1, updated_at = now()
WHERE id = $1 AND qty_available > 0`

	incrementOfferSQL = `UPDATE offers
SET qty_available = qty_available + 1, updated_at = now()
WHERE id = $1`
)

type OfferRepository struct {
	db db.DBTX
}

func NewOfferRepository(dbtx db.DBTX) *OfferRepository {
	return &OfferRepository{db: dbtx}
}

// DecrementAvailable is the only write path that takes inventory. The predicate and
// the write are one statement, so the row lock serializes concurrent callers.
func (r *OfferRepository) DecrementAvailable(ctx context.Context, offerID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, decrementOfferSQL, offerID)
	if err != nil {
		return false, infra.WrapPgErr("failed to decrement offer quantity", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OfferRepository) IncrementAvailable(ctx context.Context, offerID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, incrementOfferSQL, offerID)
	if err != nil {
		return infra.WrapPgErr("failed to increment offer quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "offer not found", nil)
	}
	return nil
}
