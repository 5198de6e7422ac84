package reservation

import (
	"food-rescue-api/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock clock.Clock
	Codes CodeGenerator
}

func NewFactory(clock clock.Clock, codes CodeGenerator) *Factory {
	return &Factory{
		Clock: clock,
		Codes: codes,
	}
}

// CreateReservation builds a fresh reserved claim on offerID with a newly minted code.
func (f *Factory) CreateReservation(offerID uuid.UUID, userID UserID) (*Reservation, error) {
	if userID.IsZero() {
		return nil, ErrEmptyUserID
	}
	code, err := f.Codes.Generate()
	if err != nil {
		return nil, err
	}
	now := f.Clock.Now()
	return &Reservation{
		id:         uuid.New(),
		offerID:    offerID,
		userID:     userID,
		pickupCode: code,
		status:     StatusReserved,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}
