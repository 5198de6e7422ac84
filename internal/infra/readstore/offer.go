package readstore

import (
	"context"

	"food-rescue-api/internal/infra"
	"food-rescue-api/internal/infra/db"
	"food-rescue-api/internal/pkg/pgconv"
	"food-rescue-api/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getOfferByIDSQL = `SELECT o.id, o.shop_id, o.qty_available, o.pickup_start, o.pickup_end,
	s.name, COALESCE(s.address, '')
FROM offers o
JOIN shops s ON s.id = o.shop_id
WHERE o.id = $1`

type OfferReadStore struct {
	db db.DBTX
}

func NewOfferReadStore(dbtx db.DBTX) *OfferReadStore {
	return &OfferReadStore{db: dbtx}
}

func (r *OfferReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.OfferSnapshot, error) {
	var (
		snap        shared.OfferSnapshot
		qty         int32
		pickupStart pgtype.Timestamptz
		pickupEnd   pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, getOfferByIDSQL, id).Scan(
		&snap.ID, &snap.ShopID, &qty, &pickupStart, &pickupEnd,
		&snap.ShopName, &snap.ShopAddress,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "offer not found", err)
		}
		return nil, infra.WrapPgErr("failed to find offer by ID", err)
	}

	snap.QtyAvailable = int(qty)
	snap.PickupStart = pgconv.TimePtrFromPgtype(pickupStart)
	snap.PickupEnd = pgconv.TimePtrFromPgtype(pickupEnd)
	return &snap, nil
}
