package reservation

import (
	"time"

	"reserva/internal/domain"
)

type CreateReservationRequest struct {
	TargetID      int64     `json:"target_id" binding:"required"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	UsageLocation string    `json:"usage_location"`
	Activity      string    `json:"activity"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason" binding:"required,min=3"`
}

type DeclareIntentionRequest struct {
	TargetID  int64     `json:"target_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// ReservationResponse decorates a reservation with the catalog names the
// client would otherwise have to join itself.
type ReservationResponse struct {
	domain.Reservation
	TargetName string `json:"target_name,omitempty"`
	ParentName string `json:"parent_name,omitempty"`
}
