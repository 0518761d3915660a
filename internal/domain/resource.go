package domain

import "time"

// Resource is a node in the bookable catalog. Top-level rows have a nil
// ParentID; sub-resources point at their parent. All nodes share one id space,
// so a reservation's final target id is unambiguous whether it lands on a leaf
// resource or on a sub-resource.
//
// A resource that has children is a category only and is never booked directly.
type Resource struct {
	ID        int64     `json:"id"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	Name      string    `json:"name" validate:"required"`
	IconKey   string    `json:"icon_key,omitempty"`
	GroupLane string    `json:"group_lane,omitempty"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookableTarget is a leaf of the catalog tree: a childless top-level resource
// or a sub-resource. Reservations and intentions reference targets only.
// GroupLane, when set, folds several targets into one display lane on the
// admin grid (e.g. the streaming accounts), without merging their bookings.
type BookableTarget struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ParentID   int64  `json:"parent_id"`
	ParentName string `json:"parent_name,omitempty"`
	GroupLane  string `json:"group_lane,omitempty"`
}
