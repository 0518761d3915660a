package admin

import (
	"context"
	"time"

	"reserva/internal/availability"
	"reserva/internal/domain"
	"reserva/internal/modules/catalog"
	"reserva/internal/repository"
)

// ReservationAdminRepository covers the decision and reporting queries.
type ReservationAdminRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Decide(ctx context.Context, id int64, status domain.ReservationStatus, reason string, adminID int64, at time.Time) error
	ListAdmin(ctx context.Context, f repository.AdminListFilter, limit, offset int) ([]repository.AdminReservationRow, error)
	CountByStatus(ctx context.Context, status domain.ReservationStatus) (int64, error)
	CountStartingBetween(ctx context.Context, from, to time.Time) (int64, error)
	MostRequestedTarget(ctx context.Context) (string, error)
	UsageByTarget(ctx context.Context, f repository.AdminListFilter) ([]repository.UsageRow, error)
}

type IntentionReader interface {
	CountSince(ctx context.Context, since time.Time) (int64, error)
	ListByTarget(ctx context.Context, targetID int64, from, to time.Time) ([]domain.Intention, error)
}

type LaneProvider interface {
	Lanes(ctx context.Context) ([]catalog.Lane, error)
}

type SnapshotReader interface {
	Current() availability.Snapshot
}

// Notifier tells the reservation owner about a decision. Best effort.
type Notifier interface {
	ReservationDecided(res *domain.Reservation)
}
