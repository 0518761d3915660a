package domain

import "time"

// Intention is a lightweight demand signal recorded when a requester runs into
// a conflict on the slot they wanted. It has no status lifecycle, never blocks
// anyone else's booking, and any number of intentions may coexist for the same
// interval.
type Intention struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id" validate:"required"`
	TargetID  int64     `json:"target_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}
