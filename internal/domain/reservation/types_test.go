//go:build unit

package reservation_test

import (
	"testing"

	"food-rescue-api/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []reservation.Status{
	reservation.StatusReserved,
	reservation.StatusPickedUp,
	reservation.StatusPaid,
	reservation.StatusCanceled,
}

func TestStatus_CanTransitionTo(t *testing.T) {
	allowed := map[reservation.Status]map[reservation.Status]bool{
		reservation.StatusReserved: {
			reservation.StatusPickedUp: true,
			reservation.StatusPaid:     true,
			reservation.StatusCanceled: true,
		},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				assert.Equal(t, allowed[from][to], from.CanTransitionTo(to))
			})
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range allStatuses {
		got, err := reservation.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := reservation.ParseStatus("confirmed")
	assert.ErrorIs(t, err, reservation.ErrInvalidStatus)
}
