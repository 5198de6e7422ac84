package readstore

import (
	"context"

	"food-rescue-api/internal/domain/reservation"
	"food-rescue-api/internal/infra"
	"food-rescue-api/internal/infra/db"
	"food-rescue-api/internal/pkg/pgconv"
	"food-rescue-api/internal/usecase/queries"
	"food-rescue-api/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ReservationColumns is the column list ScanReservation expects, in order.
const ReservationColumns = `id, offer_id, user_liff_id, pickup_code, status, picked_up_at, created_at, updated_at`

const (
	getReservationByIDSQL = `SELECT ` + ReservationColumns + `
FROM reservations
WHERE id = $1`

	// Collisions are resolved by creation order; the id breaks exact-timestamp ties.
	getReservedByCodeSQL = `SELECT ` + ReservationColumns + `
FROM reservations
WHERE pickup_code = $1 AND status = 'reserved'
ORDER BY created_at ASC, id ASC`

	hasActiveReservationSQL = `SELECT EXISTS (
	SELECT 1 FROM reservations
	WHERE offer_id = $1 AND user_liff_id = $2 AND status = 'reserved'
)`

	listReservationsByUserSQL = `SELECT r.id, r.offer_id, r.status, r.pickup_code, s.name
FROM reservations r
JOIN offers o ON o.id = r.offer_id
JOIN shops s ON s.id = o.shop_id
WHERE r.user_liff_id = $1 AND r.status = ANY($2)
ORDER BY r.created_at DESC, r.id DESC
LIMIT $3`
)

type rowScanner interface {
	Scan(dest ...any) error
}

type ReservationReadStore struct {
	db db.DBTX
}

var _ queries.ReservationViewRepo = (*ReservationReadStore)(nil)

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	snap, err := ScanReservation(r.db.QueryRow(ctx, getReservationByIDSQL, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "reservation not found", err)
		}
		return nil, infra.WrapPgErr("failed to find reservation by ID", err)
	}
	return snap, nil
}

func (r *ReservationReadStore) FindReservedByCode(ctx context.Context, code string) ([]*shared.ReservationSnapshot, error) {
	rows, err := r.db.Query(ctx, getReservedByCodeSQL, code)
	if err != nil {
		return nil, infra.WrapPgErr("failed to find reservations by pickup code", err)
	}
	defer rows.Close()

	result := make([]*shared.ReservationSnapshot, 0, 1)
	for rows.Next() {
		snap, err := ScanReservation(rows)
		if err != nil {
			return nil, infra.WrapPgErr("failed to scan reservation", err)
		}
		result = append(result, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr("failed to iterate reservations", err)
	}
	return result, nil
}

func (r *ReservationReadStore) HasActive(ctx context.Context, offerID uuid.UUID, userID string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, hasActiveReservationSQL, offerID, userID).Scan(&exists); err != nil {
		return false, infra.WrapPgErr("failed to check active reservation", err)
	}
	return exists, nil
}

func (r *ReservationReadStore) ListByUser(
	ctx context.Context,
	userID string,
	statuses []reservation.Status,
	limit int,
) ([]*queries.ReservationListItem, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.String()
	}

	rows, err := r.db.Query(ctx, listReservationsByUserSQL, userID, names, limit)
	if err != nil {
		return nil, infra.WrapPgErr("failed to list reservations by user", err)
	}
	defer rows.Close()

	result := make([]*queries.ReservationListItem, 0)
	for rows.Next() {
		var (
			item   queries.ReservationListItem
			status string
		)
		if err := rows.Scan(&item.ID, &item.OfferID, &status, &item.PickupCode, &item.ShopName); err != nil {
			return nil, infra.WrapPgErr("failed to scan reservation list item", err)
		}
		item.Status = reservation.Status(status)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr("failed to iterate reservation list", err)
	}
	return result, nil
}

// ScanReservation reads one row selected with ReservationColumns.
func ScanReservation(row rowScanner) (*shared.ReservationSnapshot, error) {
	var (
		snap       shared.ReservationSnapshot
		status     string
		pickedUpAt pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)
	if err := row.Scan(
		&snap.ID, &snap.OfferID, &snap.UserID, &snap.PickupCode,
		&status, &pickedUpAt, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	st, err := reservation.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	snap.Status = st
	snap.PickedUpAt = pgconv.TimePtrFromPgtype(pickedUpAt)
	snap.CreatedAt = createdAt.Time
	snap.UpdatedAt = updatedAt.Time
	return &snap, nil
}
