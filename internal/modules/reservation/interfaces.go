package reservation

import (
	"context"
	"time"

	"reserva/internal/availability"
	"reserva/internal/domain"
)

// ReservationRepositoryInterface covers the methods the requester-facing
// service uses. Admin decisions live in the admin module.
type ReservationRepositoryInterface interface {
	Create(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Reservation, error)
	CancelWithReason(ctx context.Context, id int64, reason string, at time.Time) error
}

type IntentionRepositoryInterface interface {
	Create(ctx context.Context, in *domain.Intention) error
}

// TargetResolver maps a target id to its catalog leaf, rejecting categories.
type TargetResolver interface {
	Target(ctx context.Context, id int64) (*domain.BookableTarget, error)
}

// SnapshotReader exposes the availability snapshot the conflict check runs
// against. The database exclusion constraint remains the authority; the
// snapshot only gives fast, possibly seconds-stale answers.
type SnapshotReader interface {
	Current() availability.Snapshot
}

// Notifier fans a newly created reservation out to administrators. Delivery is
// best effort and must never fail the request.
type Notifier interface {
	ReservationCreated(res *domain.Reservation, targetName string)
}
