//go:build unit

package readstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"food-rescue-api/internal/domain/reservation"
	"food-rescue-api/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rowDB answers every QueryRow with the same row.
type rowDB struct {
	row pgx.Row
}

func (d rowDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("not used")
}

func (d rowDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not used")
}

func (d rowDB) QueryRow(context.Context, string, ...any) pgx.Row { return d.row }

type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error { return f(dest...) }

func reservationRow(status string, pickedUp pgtype.Timestamptz, created time.Time) scanFunc {
	return func(dest ...any) error {
		*dest[0].(*uuid.UUID) = uuid.MustParse("0a1b2c3d-0000-4000-8000-000000000001")
		*dest[1].(*uuid.UUID) = uuid.MustParse("0a1b2c3d-0000-4000-8000-0000000000f1")
		*dest[2].(*string) = "U1"
		*dest[3].(*string) = "ABC234"
		*dest[4].(*string) = status
		*dest[5].(*pgtype.Timestamptz) = pickedUp
		*dest[6].(*pgtype.Timestamptz) = pgtype.Timestamptz{Time: created, Valid: true}
		*dest[7].(*pgtype.Timestamptz) = pgtype.Timestamptz{Time: created, Valid: true}
		return nil
	}
}

func TestScanReservation(t *testing.T) {
	created := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("reserved row", func(t *testing.T) {
		snap, err := ScanReservation(reservationRow("reserved", pgtype.Timestamptz{}, created))
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusReserved, snap.Status)
		assert.Nil(t, snap.PickedUpAt)
		assert.Equal(t, "ABC234", snap.PickupCode)
		assert.True(t, snap.CreatedAt.Equal(created))
	})

	t.Run("picked up row", func(t *testing.T) {
		at := created.Add(time.Hour)
		snap, err := ScanReservation(reservationRow("picked_up", pgtype.Timestamptz{Time: at, Valid: true}, created))
		require.NoError(t, err)
		require.NotNil(t, snap.PickedUpAt)
		assert.True(t, snap.PickedUpAt.Equal(at))
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := ScanReservation(reservationRow("refunded", pgtype.Timestamptz{}, created))
		assert.ErrorIs(t, err, reservation.ErrInvalidStatus)
	})
}

func TestReservationReadStore_FindByID(t *testing.T) {
	t.Run("missing row is NOT_FOUND", func(t *testing.T) {
		store := NewReservationReadStore(rowDB{row: scanFunc(func(...any) error { return pgx.ErrNoRows })})
		_, err := store.FindByID(context.Background(), uuid.New())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("driver failure is DB_FAILURE", func(t *testing.T) {
		store := NewReservationReadStore(rowDB{row: scanFunc(func(...any) error { return errors.New("conn reset") })})
		_, err := store.FindByID(context.Background(), uuid.New())
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestReservationReadStore_HasActive(t *testing.T) {
	store := NewReservationReadStore(rowDB{row: scanFunc(func(dest ...any) error {
		*dest[0].(*bool) = true
		return nil
	})})
	held, err := store.HasActive(context.Background(), uuid.New(), "U1")
	require.NoError(t, err)
	assert.True(t, held)
}

func TestOfferReadStore_FindByID(t *testing.T) {
	start := time.Date(2025, 4, 1, 18, 0, 0, 0, time.UTC)

	t.Run("joins shop display fields", func(t *testing.T) {
		offerID := uuid.New()
		store := NewOfferReadStore(rowDB{row: scanFunc(func(dest ...any) error {
			*dest[0].(*uuid.UUID) = offerID
			*dest[1].(*uuid.UUID) = uuid.New()
			*dest[2].(*int32) = 4
			*dest[3].(*pgtype.Timestamptz) = pgtype.Timestamptz{Time: start, Valid: true}
			*dest[4].(*pgtype.Timestamptz) = pgtype.Timestamptz{}
			*dest[5].(*string) = "Corner Bakery"
			*dest[6].(*string) = ""
			return nil
		})})

		snap, err := store.FindByID(context.Background(), offerID)
		require.NoError(t, err)
		assert.Equal(t, 4, snap.QtyAvailable)
		assert.Equal(t, "Corner Bakery", snap.ShopName)
		require.NotNil(t, snap.PickupStart)
		assert.Nil(t, snap.PickupEnd)
	})

	t.Run("missing offer is NOT_FOUND", func(t *testing.T) {
		store := NewOfferReadStore(rowDB{row: scanFunc(func(...any) error { return pgx.ErrNoRows })})
		_, err := store.FindByID(context.Background(), uuid.New())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
