package queries

import (
	"context"
	"strings"

	"food-rescue-api/internal/domain/reservation"
	"food-rescue-api/internal/pkg/errs"

	"github.com/google/uuid"
)

const DefaultListLimit = 100

var (
	ErrInvalidCaller = errs.New("caller id required")
	ErrListFailed    = errs.New("failed to list reservations")
)

// Read models (DTO for read side)
type ReservationListItem struct {
	ID         uuid.UUID          `json:"id"`
	OfferID    uuid.UUID          `json:"offer_id"`
	Status     reservation.Status `json:"status"`
	PickupCode string             `json:"pickup_code"`
	ShopName   string             `json:"shop_name"`
}

type ReservationQueries interface {
	ListMine(ctx context.Context, callerID string) ([]*ReservationListItem, error)
}

type ReservationViewRepo interface {
	ListByUser(ctx context.Context, userID string, statuses []reservation.Status, limit int) ([]*ReservationListItem, error)
}

type reservationQueriesImpl struct {
	repo  ReservationViewRepo
	limit int
}

func NewReservationQueries(repo ReservationViewRepo, limit int) ReservationQueries {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return &reservationQueriesImpl{repo: repo, limit: limit}
}

// ListMine returns the caller's reserved and paid reservations, newest first.
func (q *reservationQueriesImpl) ListMine(ctx context.Context, callerID string) ([]*ReservationListItem, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return nil, ErrInvalidCaller
	}
	items, err := q.repo.ListByUser(ctx, callerID,
		[]reservation.Status{reservation.StatusReserved, reservation.StatusPaid}, q.limit)
	if err != nil {
		return nil, errs.Mark(err, ErrListFailed)
	}
	if items == nil {
		items = []*ReservationListItem{}
	}
	return items, nil
}
