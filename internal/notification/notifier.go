package notification

import (
	"fmt"

	"reserva/internal/domain"
)

// Notifier fans reservation events out over both channels: web push through
// the worker pool and the live websocket feed through the hub. It satisfies
// the notifier seams of the reservation and admin modules. A nil pool means
// web push is not configured; the websocket feed still runs.
type Notifier struct {
	pool *WorkerPool
	hub  *Hub
}

func NewNotifier(pool *WorkerPool, hub *Hub) *Notifier {
	return &Notifier{pool: pool, hub: hub}
}

func (n *Notifier) dispatch(job Job) {
	if n.pool != nil {
		n.pool.Dispatch(job)
	}
}

// ReservationCreated announces a new pending reservation to administrators.
func (n *Notifier) ReservationCreated(res *domain.Reservation, targetName string) {
	n.dispatch(Job{
		UserID: 0,
		Title:  "New reservation request",
		Body:   fmt.Sprintf("%s on %s", targetName, res.StartTime.Format("2006-01-02 15:04")),
		Payload: map[string]any{
			"event":          "reservation_created",
			"reservation_id": res.ID,
			"target_id":      res.TargetID,
		},
	})
	n.hub.BroadcastToAdmins(map[string]any{
		"event":       "reservation_created",
		"reservation": res,
		"target_name": targetName,
	})
}

// ReservationDecided tells the owner their reservation was approved or
// refused.
func (n *Notifier) ReservationDecided(res *domain.Reservation) {
	title := "Reservation approved"
	body := fmt.Sprintf("Your reservation for %s was approved", res.StartTime.Format("2006-01-02 15:04"))
	if res.Status == domain.ReservationRefused {
		title = "Reservation refused"
		body = fmt.Sprintf("Your reservation for %s was refused: %s", res.StartTime.Format("2006-01-02 15:04"), res.RefusalReason)
	}

	n.dispatch(Job{
		UserID: res.UserID,
		Title:  title,
		Body:   body,
		Payload: map[string]any{
			"event":          "reservation_decided",
			"reservation_id": res.ID,
			"status":         res.Status,
		},
	})
	n.hub.SendToUser(res.UserID, map[string]any{
		"event":       "reservation_decided",
		"reservation": res,
	})
}
