package catalog

import "reserva/internal/domain"

type CreateResourceRequest struct {
	Name      string `json:"name" binding:"required,min=2"`
	ParentID  *int64 `json:"parent_id,omitempty"`
	IconKey   string `json:"icon_key,omitempty"`
	GroupLane string `json:"group_lane,omitempty"`
	SortOrder int    `json:"sort_order"`
}

type UpdateResourceRequest struct {
	Name      string `json:"name,omitempty" binding:"omitempty,min=2"`
	IconKey   string `json:"icon_key,omitempty"`
	GroupLane string `json:"group_lane,omitempty"`
	SortOrder *int   `json:"sort_order,omitempty"`
}

// ResourceNode is one entry of the catalog tree as served to clients.
type ResourceNode struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	IconKey   string         `json:"icon_key,omitempty"`
	GroupLane string         `json:"group_lane,omitempty"`
	SortOrder int            `json:"sort_order"`
	Bookable  bool           `json:"bookable"`
	Children  []ResourceNode `json:"children,omitempty"`
}

// Lane is one display row of the admin grid. Plain targets map one to one;
// targets sharing a group lane fold into a single row.
type Lane struct {
	Key       string                  `json:"key"`
	Label     string                  `json:"label"`
	TargetIDs []int64                 `json:"target_ids"`
	Targets   []domain.BookableTarget `json:"targets"`
}
