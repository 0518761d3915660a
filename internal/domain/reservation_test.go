package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReservationStatusSets(t *testing.T) {
	assert.True(t, ReservationPending.Active())
	assert.True(t, ReservationApproved.Active())
	assert.False(t, ReservationRefused.Active())
	assert.False(t, ReservationCancelled.Active())

	assert.False(t, ReservationPending.Terminal())
	assert.False(t, ReservationApproved.Terminal())
	assert.True(t, ReservationRefused.Terminal())
	assert.True(t, ReservationCancelled.Terminal())

	assert.ElementsMatch(t,
		[]ReservationStatus{ReservationPending, ReservationApproved},
		ActiveStatuses)
}

func TestReservationCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from ReservationStatus
		to   ReservationStatus
		want bool
	}{
		{"pending to approved", ReservationPending, ReservationApproved, true},
		{"pending to refused", ReservationPending, ReservationRefused, true},
		{"pending to cancelled", ReservationPending, ReservationCancelled, true},
		{"approved to cancelled", ReservationApproved, ReservationCancelled, true},
		{"approved to refused", ReservationApproved, ReservationRefused, false},
		{"approved to pending", ReservationApproved, ReservationPending, false},
		{"refused is terminal", ReservationRefused, ReservationCancelled, false},
		{"cancelled is terminal", ReservationCancelled, ReservationApproved, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Reservation{Status: tc.from}
			assert.Equal(t, tc.want, r.CanTransition(tc.to))
		})
	}
}
