package repository

import (
	"context"
	"time"

	"food-rescue-api/internal/domain/reservation"
	"food-rescue-api/internal/infra"
	"food-rescue-api/internal/infra/db"
	"food-rescue-api/internal/infra/readstore"
	"food-rescue-api/internal/pkg/pgconv"
	"food-rescue-api/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	createReservationSQL = `INSERT INTO reservations
(id, offer_id, user_liff_id, pickup_code, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	transitionReservationSQL = `UPDATE reservations
SET status = $3, updated_at = $4, picked_up_at = COALESCE($5, picked_up_at)
WHERE id = $1 AND status = $2
RETURNING ` + readstore.ReservationColumns
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	_, err := r.db.Exec(ctx, createReservationSQL,
		res.ID(),
		res.OfferID(),
		res.UserID().String(),
		res.PickupCode().String(),
		res.Status().String(),
		pgconv.TimeToPgtype(res.CreatedAt()),
		pgconv.TimeToPgtype(res.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapPgErr("failed to create reservation", err)
	}
	return nil
}

// Transition applies from -> to only while the row is still in from.
func (r *ReservationRepository) Transition(
	ctx context.Context,
	id uuid.UUID,
	from, to reservation.Status,
	at time.Time,
) (*shared.ReservationSnapshot, bool, error) {
	var pickedUpAt *time.Time
	if to == reservation.StatusPickedUp {
		pickedUpAt = &at
	}

	row := r.db.QueryRow(ctx, transitionReservationSQL,
		id, from.String(), to.String(),
		pgconv.TimeToPgtype(at), pgconv.TimePtrToPgtype(pickedUpAt),
	)
	snap, err := readstore.ScanReservation(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, infra.WrapPgErr("failed to transition reservation", err)
	}
	return snap, true, nil
}
