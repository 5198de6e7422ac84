//go:build unit

package reservation_test

import (
	"strings"
	"testing"
	"time"

	"food-rescue-api/internal/domain/reservation"
	"food-rescue-api/internal/pkg/clock"
	"food-rescue-api/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCodes struct{ code string }

func (f fixedCodes) Generate() (reservation.PickupCode, error) {
	return reservation.ReconstructPickupCode(f.code), nil
}

func (f fixedCodes) Normalize(raw string) (reservation.PickupCode, error) {
	return reservation.ReconstructPickupCode(strings.ToUpper(raw)), nil
}

func TestFactory_CreateReservation(t *testing.T) {
	now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	f := reservation.NewFactory(clock.NewMockClock(now), fixedCodes{code: "QWE789"})
	offerID := uuid.New()
	userID, err := reservation.NewUserID("U1")
	require.NoError(t, err)

	t.Run("基本成功ケース", func(t *testing.T) {
		r, err := f.CreateReservation(offerID, userID)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, r.ID())
		assert.Equal(t, offerID, r.OfferID())
		assert.Equal(t, "U1", r.UserID().String())
		assert.Equal(t, "QWE789", r.PickupCode().String())
		assert.Equal(t, reservation.StatusReserved, r.Status())
		assert.Nil(t, r.PickedUpAt())
		if diff := cmp.Diff(now, r.CreatedAt()); diff != "" {
			t.Errorf("CreatedAt mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("空のユーザーNG", func(t *testing.T) {
		_, err := f.CreateReservation(offerID, reservation.UserID{})
		assert.ErrorIs(t, err, reservation.ErrEmptyUserID)
	})
}

func TestNewUserID(t *testing.T) {
	id, err := reservation.NewUserID("  U42 ")
	require.NoError(t, err)
	assert.Equal(t, "U42", id.String())

	_, err = reservation.NewUserID("   ")
	assert.ErrorIs(t, err, reservation.ErrEmptyUserID)

	_, err = reservation.NewUserID(strings.Repeat("u", reservation.MaxUserIDLength+1))
	assert.ErrorIs(t, err, reservation.ErrUserIDTooLong)

	_, err = reservation.NewUserID(strings.Repeat("u", reservation.MaxUserIDLength))
	assert.NoError(t, err)
}

func TestReservation_Guards(t *testing.T) {
	owner, _ := reservation.NewUserID("U1234567890abcdef")
	stranger, _ := reservation.NewUserID("U-other")

	t.Run("所有者チェック", func(t *testing.T) {
		r, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)
		assert.NoError(t, r.EnsureOwnedBy(owner))
		assert.ErrorIs(t, r.EnsureOwnedBy(stranger), reservation.ErrNotOwner)
	})

	t.Run("終端状態からは遷移できない", func(t *testing.T) {
		for _, st := range []reservation.Status{reservation.StatusPickedUp, reservation.StatusPaid, reservation.StatusCanceled} {
			r, err := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) {
				b.Status = st
			}).BuildDomain()
			require.NoError(t, err)
			assert.ErrorIs(t, r.EnsureCanTransitionTo(reservation.StatusPaid), reservation.ErrInvalidTransition)
		}
	})

	t.Run("reservedから支払い済みへ", func(t *testing.T) {
		r, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)
		assert.NoError(t, r.EnsureCanTransitionTo(reservation.StatusPaid))
	})
}
