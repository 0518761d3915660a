package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reserva/internal/domain"
)

// Without VAPID keys the notifier runs with no worker pool; the live feed must
// keep working.
func TestNotifierWithoutPushPool(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	adminConn := dialHub(t, hub, 1, true)
	notifier := NewNotifier(nil, hub)

	res := &domain.Reservation{
		ID:        10,
		UserID:    2,
		TargetID:  3,
		StartTime: time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
		Status:    domain.ReservationPending,
	}
	notifier.ReservationCreated(res, "Meeting Room")

	require.NoError(t, adminConn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]any
	require.NoError(t, adminConn.ReadJSON(&msg))
	assert.Equal(t, "reservation_created", msg["event"])
	assert.Equal(t, "Meeting Room", msg["target_name"])
}

func TestNotifierDecidedReachesOwner(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ownerConn := dialHub(t, hub, 2, false)
	notifier := NewNotifier(nil, hub)

	res := &domain.Reservation{
		ID:            11,
		UserID:        2,
		TargetID:      3,
		Status:        domain.ReservationRefused,
		RefusalReason: "room under maintenance",
		StartTime:     time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC),
	}
	notifier.ReservationDecided(res)

	require.NoError(t, ownerConn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]any
	require.NoError(t, ownerConn.ReadJSON(&msg))
	assert.Equal(t, "reservation_decided", msg["event"])
}
