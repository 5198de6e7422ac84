//go:build unit || e2e

// Package memstore is an in-memory UnitOfWork that honours the same conditional
// update contract as the Postgres store.
//
// New serializes whole transactions behind one mutex and rolls back by restoring
// a copy of the state. NewInterleaved locks per statement instead, so concurrent
// transactions interleave between calls the way Postgres sessions do, and rolls
// back through an undo log. Only single-statement conditional updates stay safe
// under NewInterleaved.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"food-rescue-api/internal/domain/reservation"
	"food-rescue-api/internal/infra"
	"food-rescue-api/internal/usecase/queries"
	"food-rescue-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type Offer struct {
	ID           uuid.UUID
	ShopID       uuid.UUID
	QtyAvailable int
	ShopName     string
	ShopAddress  string
	PickupStart  *time.Time
	PickupEnd    *time.Time
}

type state struct {
	offers       map[uuid.UUID]Offer
	reservations map[uuid.UUID]shared.ReservationSnapshot
}

func (s state) clone() state {
	c := state{
		offers:       make(map[uuid.UUID]Offer, len(s.offers)),
		reservations: make(map[uuid.UUID]shared.ReservationSnapshot, len(s.reservations)),
	}
	for k, v := range s.offers {
		c.offers[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	return c
}

type Store struct {
	mu          sync.Mutex
	st          state
	interleaved bool

	// FailCreate makes the next reservation insert fail once.
	FailCreate error
}

var (
	_ shared.UnitOfWork           = (*Store)(nil)
	_ queries.ReservationViewRepo = (*Store)(nil)
)

func New() *Store {
	return &Store{st: state{
		offers:       map[uuid.UUID]Offer{},
		reservations: map[uuid.UUID]shared.ReservationSnapshot{},
	}}
}

func NewInterleaved() *Store {
	s := New()
	s.interleaved = true
	return s
}

func (s *Store) AddOffer(o Offer) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.ShopID == uuid.Nil {
		o.ShopID = uuid.New()
	}
	s.st.offers[o.ID] = o
	return o.ID
}

// PutReservation seeds a row directly, bypassing the engine.
func (s *Store) PutReservation(r shared.ReservationSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.reservations[r.ID] = r
}

func (s *Store) Offer(id uuid.UUID) (Offer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.st.offers[id]
	return o, ok
}

func (s *Store) Reservation(id uuid.UUID) (shared.ReservationSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.st.reservations[id]
	return r, ok
}

func (s *Store) Reservations() []shared.ReservationSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]shared.ReservationSnapshot, 0, len(s.st.reservations))
	for _, r := range s.st.reservations {
		out = append(out, r)
	}
	return out
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if s.interleaved {
		return s.withinInterleaved(ctx, fn)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.st.clone()
	if err := fn(ctx, &memTx{s: s}); err != nil {
		s.st = saved
		return err
	}
	return nil
}

func (s *Store) withinInterleaved(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := &memTx{s: s, locking: true}
	if err := fn(ctx, tx); err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		return err
	}
	return nil
}

func (s *Store) ListByUser(_ context.Context, userID string, statuses []reservation.Status, limit int) ([]*queries.ReservationListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]shared.ReservationSnapshot, 0)
	for _, r := range s.st.reservations {
		if r.UserID == userID && slices.Contains(statuses, r.Status) {
			rows = append(rows, r)
		}
	}
	slices.SortFunc(rows, func(a, b shared.ReservationSnapshot) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	items := make([]*queries.ReservationListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, &queries.ReservationListItem{
			ID:         r.ID,
			OfferID:    r.OfferID,
			Status:     r.Status,
			PickupCode: r.PickupCode,
			ShopName:   s.st.offers[r.OfferID].ShopName,
		})
	}
	return items, nil
}

type memTx struct {
	s       *Store
	locking bool
	// undo entries run under the store lock, newest first.
	undo []func()
}

func (t *memTx) lock() func() {
	if !t.locking {
		return func() {}
	}
	t.s.mu.Lock()
	return t.s.mu.Unlock
}

func (t *memTx) record(fn func()) {
	if t.locking {
		t.undo = append(t.undo, fn)
	}
}

func (t *memTx) Offers() shared.OfferRepository             { return (*offerRepo)(t) }
func (t *memTx) Reservations() shared.ReservationRepository { return (*reservationRepo)(t) }
func (t *memTx) Reads() shared.CommandReads                 { return (*reads)(t) }

type offerRepo memTx

func (r *offerRepo) DecrementAvailable(_ context.Context, offerID uuid.UUID) (bool, error) {
	defer (*memTx)(r).lock()()
	if !r.s.addQty(offerID, -1) {
		return false, nil
	}
	(*memTx)(r).record(func() { r.s.addQty(offerID, 1) })
	return true, nil
}

func (r *offerRepo) IncrementAvailable(_ context.Context, offerID uuid.UUID) error {
	defer (*memTx)(r).lock()()
	if _, ok := r.s.st.offers[offerID]; !ok {
		return infra.WrapRepoErr(infra.KindNotFound, "increment offer", nil)
	}
	r.s.addQty(offerID, 1)
	(*memTx)(r).record(func() { r.s.addQty(offerID, -1) })
	return nil
}

// addQty applies delta while the result stays non-negative, mirroring the CHECK constraint.
func (s *Store) addQty(offerID uuid.UUID, delta int) bool {
	o, ok := s.st.offers[offerID]
	if !ok || o.QtyAvailable+delta < 0 {
		return false
	}
	o.QtyAvailable += delta
	s.st.offers[offerID] = o
	return true
}

type reservationRepo memTx

func (r *reservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	defer (*memTx)(r).lock()()
	if err := r.s.FailCreate; err != nil {
		r.s.FailCreate = nil
		return infra.WrapRepoErr(infra.KindDBFailure, "create reservation", err)
	}
	if _, ok := r.s.st.offers[res.OfferID()]; !ok {
		return infra.WrapRepoErr(infra.KindForeignKeyViolated, "create reservation", nil)
	}
	r.s.st.reservations[res.ID()] = shared.ReservationSnapshot{
		ID:         res.ID(),
		OfferID:    res.OfferID(),
		UserID:     res.UserID().String(),
		PickupCode: res.PickupCode().String(),
		Status:     res.Status(),
		PickedUpAt: res.PickedUpAt(),
		CreatedAt:  res.CreatedAt(),
		UpdatedAt:  res.UpdatedAt(),
	}
	id := res.ID()
	(*memTx)(r).record(func() { delete(r.s.st.reservations, id) })
	return nil
}

func (r *reservationRepo) Transition(_ context.Context, id uuid.UUID, from, to reservation.Status, at time.Time) (*shared.ReservationSnapshot, bool, error) {
	defer (*memTx)(r).lock()()
	row, ok := r.s.st.reservations[id]
	if !ok || row.Status != from {
		return nil, false, nil
	}
	prev := row
	(*memTx)(r).record(func() { r.s.st.reservations[id] = prev })
	row.Status = to
	row.UpdatedAt = at
	if to == reservation.StatusPickedUp {
		t := at
		row.PickedUpAt = &t
	}
	r.s.st.reservations[id] = row
	out := row
	return &out, true, nil
}

type reads memTx

func (r *reads) OfferByID(_ context.Context, id uuid.UUID) (*shared.OfferSnapshot, error) {
	defer (*memTx)(r).lock()()
	o, ok := r.s.st.offers[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "offer not found", nil)
	}
	return &shared.OfferSnapshot{
		ID:           o.ID,
		ShopID:       o.ShopID,
		QtyAvailable: o.QtyAvailable,
		PickupStart:  o.PickupStart,
		PickupEnd:    o.PickupEnd,
		ShopName:     o.ShopName,
		ShopAddress:  o.ShopAddress,
	}, nil
}

func (r *reads) ReservationByID(_ context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	defer (*memTx)(r).lock()()
	row, ok := r.s.st.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "reservation not found", nil)
	}
	return &row, nil
}

func (r *reads) ReservedByCode(_ context.Context, code string) ([]*shared.ReservationSnapshot, error) {
	defer (*memTx)(r).lock()()
	out := make([]*shared.ReservationSnapshot, 0)
	for _, row := range r.s.st.reservations {
		if row.PickupCode == code && row.Status == reservation.StatusReserved {
			row := row
			out = append(out, &row)
		}
	}
	slices.SortFunc(out, func(a, b *shared.ReservationSnapshot) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (r *reads) HasActiveReservation(_ context.Context, offerID uuid.UUID, userID string) (bool, error) {
	defer (*memTx)(r).lock()()
	for _, row := range r.s.st.reservations {
		if row.OfferID == offerID && row.UserID == userID && row.Status == reservation.StatusReserved {
			return true, nil
		}
	}
	return false, nil
}
