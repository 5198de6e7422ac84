package offer

import (
	"time"

	"github.com/google/uuid"
)

// Offer is a shop's surplus unit with a finite counted quantity.
// Only the inventory store mutates qtyAvailable; this value is a read snapshot.
type Offer struct {
	id           uuid.UUID
	shopID       uuid.UUID
	qtyAvailable int
	pickupStart  *time.Time
	pickupEnd    *time.Time
	shop         Shop
}

// Shop carries the display fields of the owning shop.
type Shop struct {
	Name    string
	Address string
}

func Reconstruct(
	id, shopID uuid.UUID,
	qtyAvailable int,
	pickupStart, pickupEnd *time.Time,
	shop Shop,
) *Offer {
	return &Offer{
		id:           id,
		shopID:       shopID,
		qtyAvailable: qtyAvailable,
		pickupStart:  pickupStart,
		pickupEnd:    pickupEnd,
		shop:         shop,
	}
}

func (o *Offer) ID() uuid.UUID           { return o.id }
func (o *Offer) ShopID() uuid.UUID       { return o.shopID }
func (o *Offer) QtyAvailable() int       { return o.qtyAvailable }
func (o *Offer) PickupStart() *time.Time { return o.pickupStart }
func (o *Offer) PickupEnd() *time.Time   { return o.pickupEnd }
func (o *Offer) Shop() Shop              { return o.shop }
