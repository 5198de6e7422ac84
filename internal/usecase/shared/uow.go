package shared

import (
	"context"
	"time"

	"food-rescue-api/internal/domain/reservation"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes repositories bound to one open transaction.
type Tx interface {
	Offers() OfferRepository
	Reservations() ReservationRepository
	Reads() CommandReads
}

type CommandReads interface {
	OfferByID(ctx context.Context, id uuid.UUID) (*OfferSnapshot, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
	// ReservedByCode returns reserved rows holding code, earliest created first (ties by id).
	ReservedByCode(ctx context.Context, code string) ([]*ReservationSnapshot, error)
	HasActiveReservation(ctx context.Context, offerID uuid.UUID, userID string) (bool, error)
}

type OfferRepository interface {
	// DecrementAvailable takes one unit only while qty_available > 0 and reports whether it did.
	DecrementAvailable(ctx context.Context, offerID uuid.UUID) (bool, error)
	IncrementAvailable(ctx context.Context, offerID uuid.UUID) error
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	// Transition moves id from -> to only if the row is still in from. ok is false when
	// no row matched, in which case the snapshot is nil.
	Transition(ctx context.Context, id uuid.UUID, from, to reservation.Status, at time.Time) (snap *ReservationSnapshot, ok bool, err error)
}

// Minimal snapshot for command read operations
type OfferSnapshot struct {
	ID           uuid.UUID
	ShopID       uuid.UUID
	QtyAvailable int
	PickupStart  *time.Time
	PickupEnd    *time.Time
	ShopName     string
	ShopAddress  string
}

type ReservationSnapshot struct {
	ID         uuid.UUID
	OfferID    uuid.UUID
	UserID     string
	PickupCode string
	Status     reservation.Status
	PickedUpAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
