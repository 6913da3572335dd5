package game

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legs(pairs ...string) []Leg {
	out := make([]Leg, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Leg{Pair: p, ProviderID: 1, Cost: decimal.NewFromInt(10)})
	}
	return out
}

func TestReservationHappyPath(t *testing.T) {
	r := NewReservation("r1", 1, 1, legs("A-C", "B-C"), time.Now())
	assert.Equal(t, StatusTrying, r.Status)
	assert.Equal(t, 2, r.PendingAcks)
	assert.True(t, r.TotalCost.Equal(decimal.NewFromInt(20)))

	assert.False(t, r.AckTry("A-C", nil))
	assert.True(t, r.AckTry("B-C", nil))
	assert.Equal(t, StatusConfirmReady, r.Status)

	require.True(t, r.BeginPhase(StatusConfirmReady, StatusConfirming))
	assert.False(t, r.AckPhase(StatusConfirming))
	assert.True(t, r.AckPhase(StatusConfirming))
	assert.Equal(t, StatusCommitted, r.Status)
	assert.True(t, r.Status.Terminal())
}

func TestReservationFailFastIgnoresLateSuccess(t *testing.T) {
	r := NewReservation("r1", 1, 1, legs("A-C", "B-C", "B-D"), time.Now())
	assert.False(t, r.AckTry("A-C", nil))
	assert.True(t, r.AckTry("B-C", errors.New("sold out")))
	assert.Equal(t, StatusCancelReady, r.Status)
	assert.Equal(t, "B-C", r.FailedLeg)

	assert.False(t, r.AckTry("B-D", nil))
	assert.Equal(t, StatusCancelReady, r.Status)

	require.True(t, r.BeginPhase(StatusCancelReady, StatusCancelling))
	assert.Equal(t, 3, r.PendingAcks)
	r.AckPhase(StatusCancelling)
	r.AckPhase(StatusCancelling)
	assert.True(t, r.AckPhase(StatusCancelling))
	assert.Equal(t, StatusCancelled, r.Status)
	assert.False(t, r.AckPhase(StatusCancelling))
}

func TestReservationTransitionAsserts(t *testing.T) {
	r := NewReservation("r1", 1, 1, legs("A-B"), time.Now())
	assert.False(t, r.Transition(StatusConfirmReady, StatusConfirming))
	assert.False(t, r.Transition(StatusTrying, StatusCommitted))
	assert.False(t, r.BeginPhase(StatusCancelReady, StatusCancelling))
	assert.Equal(t, StatusTrying, r.Status)
}

func TestValidateItinerary(t *testing.T) {
	assert.NoError(t, ValidateItinerary("A-D", legs("A-B", "B-C", "C-D")))
	assert.NoError(t, ValidateItinerary("A-D", legs("C-D", "B-C", "A-B")))
	assert.NoError(t, ValidateItinerary("A-B", legs("B-A")))
	assert.ErrorIs(t, ValidateItinerary("A-D", legs("A-B", "C-D")), ErrInvalidItinerary)
	assert.ErrorIs(t, ValidateItinerary("A-C", legs("A-B")), ErrInvalidItinerary)
	assert.ErrorIs(t, ValidateItinerary("A-B", legs("A-B", "A-B", "A-B")), ErrInvalidItinerary)
	assert.ErrorIs(t, ValidateItinerary("A-B", nil), ErrInvalidItinerary)
}

func TestReservationsKeepOrder(t *testing.T) {
	s := NewReservations()
	for _, id := range []string{"z", "a", "m"} {
		s.Add(NewReservation(id, 1, 1, legs("A-B"), time.Now()))
	}
	var ids []string
	for _, r := range s.All() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"z", "a", "m"}, ids)
	s.Clear()
	assert.Equal(t, 0, s.Len())
}
