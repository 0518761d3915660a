package domain

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationApproved  ReservationStatus = "approved"
	ReservationRefused   ReservationStatus = "refused"
	ReservationCancelled ReservationStatus = "cancelled"
)

// ActiveStatuses are the only statuses that participate in conflict detection.
// Refused and cancelled reservations stay visible in history and reports but
// are inert for scheduling.
var ActiveStatuses = []ReservationStatus{ReservationPending, ReservationApproved}

func (s ReservationStatus) Active() bool {
	return s == ReservationPending || s == ReservationApproved
}

// Terminal reports whether no further transition is allowed from s.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationRefused || s == ReservationCancelled
}

// Reservation is one requested or decided use of a bookable target over a
// contiguous [StartTime, EndTime) interval. Created as pending; an admin moves
// it to approved or refused (refusal carries a mandatory reason); the owner may
// cancel a pending or approved reservation with a mandatory reason while the
// cancellation cutoff has not passed.
type Reservation struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"user_id" validate:"required"`
	ResourceID    int64             `json:"resource_id" validate:"required"`
	TargetID      int64             `json:"target_id" validate:"required"`
	StartTime     time.Time         `json:"start_time" validate:"required"`
	EndTime       time.Time         `json:"end_time" validate:"required"`
	Status        ReservationStatus `json:"status"`
	UsageLocation string            `json:"usage_location,omitempty" gorm:"type:text"`
	Activity      string            `json:"activity,omitempty" gorm:"type:text"`
	RefusalReason string            `json:"refusal_reason,omitempty" gorm:"type:text"`
	CancelReason  string            `json:"cancel_reason,omitempty" gorm:"type:text"`
	DecidedBy     *int64            `json:"decided_by,omitempty"`
	DecidedAt     *time.Time        `json:"decided_at,omitempty"`
	CancelledAt   *time.Time        `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// CanTransition reports whether moving from the current status to next is a
// legal lifecycle step. Transitions are one-directional and terminal once
// refused or cancelled.
func (r Reservation) CanTransition(next ReservationStatus) bool {
	if r.Status.Terminal() {
		return false
	}
	switch r.Status {
	case ReservationPending:
		return next == ReservationApproved || next == ReservationRefused || next == ReservationCancelled
	case ReservationApproved:
		return next == ReservationCancelled
	default:
		return false
	}
}
