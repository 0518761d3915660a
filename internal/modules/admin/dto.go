package admin

import (
	"reserva/internal/availability"
	"reserva/internal/domain"
	"reserva/internal/repository"
)

type RefuseRequest struct {
	Reason string `json:"reason" binding:"required,min=3"`
}

type ListQuery struct {
	Status         string `form:"status"`
	Requester      string `form:"requester"`
	TargetID       int64  `form:"target_id"`
	ResourceID     int64  `form:"resource_id"`
	Date           string `form:"date"`
	From           string `form:"from"`
	To             string `form:"to"`
	LocationPrefix string `form:"location"`
	Limit          int    `form:"limit"`
	Offset         int    `form:"offset"`
}

// GridLane is one row of the day grid: a lane and the reservations occupying
// it on the requested day.
type GridLane struct {
	Key          string               `json:"key"`
	Label        string               `json:"label"`
	Reservations []domain.Reservation `json:"reservations"`
}

type DayGrid struct {
	Date  string     `json:"date"`
	Lanes []GridLane `json:"lanes"`
}

// WeekLane carries one lane's day statuses across the Monday to Saturday span.
type WeekLane struct {
	Key    string                            `json:"key"`
	Label  string                            `json:"label"`
	Days   map[string]availability.DayStatus `json:"days"`
}

type WeekView struct {
	Days  []string   `json:"days"`
	Lanes []WeekLane `json:"lanes"`
}

// DashboardStats is the admin landing page summary.
type DashboardStats struct {
	PendingCount     int64  `json:"pending_count"`
	TodayCount       int64  `json:"today_count"`
	MostRequested    string `json:"most_requested,omitempty"`
	IntentionsLast30 int64  `json:"intentions_last_30_days"`
}

type UsageReport struct {
	From string               `json:"from,omitempty"`
	To   string               `json:"to,omitempty"`
	Rows []repository.UsageRow `json:"rows"`
}
