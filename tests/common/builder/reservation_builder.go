//go:build unit || e2e

package builder

import (
	"time"

	"food-rescue-api/internal/domain/offer"
	"food-rescue-api/internal/domain/reservation"
	"food-rescue-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID         uuid.UUID
	OfferID    uuid.UUID
	UserID     string
	PickupCode string
	Status     reservation.Status
	PickedUpAt *time.Time
	CreatedAt  time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		ID:         uuid.New(),
		OfferID:    uuid.New(),
		UserID:     "U1234567890abcdef",
		PickupCode: "ABC234",
		Status:     reservation.StatusReserved,
		CreatedAt:  time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	userID, err := reservation.NewUserID(b.UserID)
	if err != nil {
		return nil, err
	}
	return reservation.ReconstructReservation(
		b.ID, b.OfferID, userID,
		reservation.ReconstructPickupCode(b.PickupCode),
		b.Status, b.PickedUpAt, b.CreatedAt, b.CreatedAt,
	), nil
}

func (b *ReservationBuilder) BuildSnapshot() *shared.ReservationSnapshot {
	return &shared.ReservationSnapshot{
		ID:         b.ID,
		OfferID:    b.OfferID,
		UserID:     b.UserID,
		PickupCode: b.PickupCode,
		Status:     b.Status,
		PickedUpAt: b.PickedUpAt,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.CreatedAt,
	}
}

type OfferBuilder struct {
	ID           uuid.UUID
	ShopID       uuid.UUID
	QtyAvailable int
	ShopName     string
	ShopAddress  string
	PickupStart  *time.Time
	PickupEnd    *time.Time
}

func NewOfferBuilder() *OfferBuilder {
	start := time.Date(2025, 4, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	return &OfferBuilder{
		ID:           uuid.New(),
		ShopID:       uuid.New(),
		QtyAvailable: 3,
		ShopName:     "Corner Bakery",
		ShopAddress:  "1-2-3 Shibuya",
		PickupStart:  &start,
		PickupEnd:    &end,
	}
}

func (b *OfferBuilder) BuildDomain() *offer.Offer {
	return offer.Reconstruct(b.ID, b.ShopID, b.QtyAvailable, b.PickupStart, b.PickupEnd,
		offer.Shop{Name: b.ShopName, Address: b.ShopAddress})
}
