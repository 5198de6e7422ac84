package response

import (
	"time"

	"food-rescue-api/internal/usecase/commands"
	"food-rescue-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID          uuid.UUID  `json:"id"`
	OfferID     uuid.UUID  `json:"offer_id"`
	PickupCode  string     `json:"pickup_code"`
	Status      string     `json:"status"`
	ShopName    string     `json:"shop_name,omitempty"`
	PickupStart *time.Time `json:"pickup_start,omitempty"`
	PickupEnd   *time.Time `json:"pickup_end,omitempty"`
	PickedUpAt  *time.Time `json:"picked_up_at,omitempty"`
}

type ReservationEnvelope struct {
	OK          bool                 `json:"ok"`
	Reservation *ReservationResponse `json:"reservation"`
}

type ReservationListEnvelope struct {
	OK    bool                           `json:"ok"`
	Items []*queries.ReservationListItem `json:"items"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

func FromReservationResult(r *commands.ReservationResult) *ReservationEnvelope {
	return &ReservationEnvelope{
		OK: true,
		Reservation: &ReservationResponse{
			ID:          r.ID,
			OfferID:     r.OfferID,
			PickupCode:  r.PickupCode,
			Status:      r.Status.String(),
			ShopName:    r.ShopName,
			PickupStart: r.PickupStart,
			PickupEnd:   r.PickupEnd,
			PickedUpAt:  r.PickedUpAt,
		},
	}
}

func FromReservationList(items []*queries.ReservationListItem) *ReservationListEnvelope {
	if items == nil {
		items = []*queries.ReservationListItem{}
	}
	return &ReservationListEnvelope{OK: true, Items: items}
}
