package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyUserID         = errors.New("user id cannot be empty")
	ErrUserIDTooLong       = errors.New("user id is too long (max 128 characters)")
	ErrInvalidStatus       = errors.New("invalid reservation status")
	ErrMalformedPickupCode = errors.New("malformed pickup code")
	ErrInvalidTransition   = errors.New("invalid reservation status transition")
	ErrNotOwner            = errors.New("reservation belongs to another user")
)

type Reservation struct {
	id         uuid.UUID
	offerID    uuid.UUID
	userID     UserID
	pickupCode PickupCode
	status     Status
	pickedUpAt *time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

func ReconstructReservation(
	id, offerID uuid.UUID,
	userID UserID,
	pickupCode PickupCode,
	status Status,
	pickedUpAt *time.Time,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:         id,
		offerID:    offerID,
		userID:     userID,
		pickupCode: pickupCode,
		status:     status,
		pickedUpAt: pickedUpAt,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// EnsureOwnedBy is checked before the state so a stranger never learns the status.
func (r *Reservation) EnsureOwnedBy(caller UserID) error {
	if !r.userID.Equals(caller) {
		return ErrNotOwner
	}
	return nil
}

func (r *Reservation) EnsureCanTransitionTo(next Status) error {
	if !r.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	return nil
}

func (r *Reservation) ID() uuid.UUID          { return r.id }
func (r *Reservation) OfferID() uuid.UUID     { return r.offerID }
func (r *Reservation) UserID() UserID         { return r.userID }
func (r *Reservation) PickupCode() PickupCode { return r.pickupCode }
func (r *Reservation) Status() Status         { return r.status }
func (r *Reservation) PickedUpAt() *time.Time { return r.pickedUpAt }
func (r *Reservation) CreatedAt() time.Time   { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time   { return r.updatedAt }
