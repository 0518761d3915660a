package calendar

import (
	"time"

	"reserva/internal/availability"
	"reserva/internal/domain"
)

// SlotCheckResponse is the live verdict for one candidate slot, with the
// reservations standing in the way when there are any.
type SlotCheckResponse struct {
	Verdict          availability.Verdict `json:"verdict"`
	Blocking         bool                 `json:"blocking"`
	IntentionAllowed bool                 `json:"intention_allowed"`
	Conflicts        []domain.Reservation `json:"conflicts,omitempty"`
	SnapshotAt       time.Time            `json:"snapshot_at"`
}

// DayInfo is one cell of the requester calendar.
type DayInfo struct {
	Date       string                 `json:"date"`
	Status     availability.DayStatus `json:"status"`
	Selectable bool                   `json:"selectable"`
}

// DaySlots lists the active reservations occupying one day on a target's lane.
type DaySlots struct {
	Date         string               `json:"date"`
	Reservations []domain.Reservation `json:"reservations"`
}
