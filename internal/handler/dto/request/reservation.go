package request

type ReserveRequest struct {
	OfferID    string `json:"offer_id" binding:"required"`
	UserLiffID string `json:"user_liff_id"`
}

type PickupRequest struct {
	PickupCode string `json:"pickup_code" binding:"required"`
}

// ReservationActionRequest is the body of pay and cancel.
type ReservationActionRequest struct {
	ReservationID string `json:"reservation_id" binding:"required"`
}
