package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"reserva/internal/availability"
	"reserva/internal/domain"
	"reserva/internal/pkg/validator"
)

// Service carries the requester-facing booking flows: creating reservations,
// cancelling them, and declaring intentions when a slot is taken.
type Service struct {
	reservations ReservationRepositoryInterface
	intentions   IntentionRepositoryInterface
	targets      TargetResolver
	snapshot     SnapshotReader
	policy       availability.Policy
	notifier     Notifier
	now          func() time.Time
}

func NewService(
	reservations ReservationRepositoryInterface,
	intentions IntentionRepositoryInterface,
	targets TargetResolver,
	snapshot SnapshotReader,
	policy availability.Policy,
	notifier Notifier,
) *Service {
	return &Service{
		reservations: reservations,
		intentions:   intentions,
		targets:      targets,
		snapshot:     snapshot,
		policy:       policy,
		notifier:     notifier,
		now:          time.Now,
	}
}

// CreateResult pairs the stored reservation with the verdict the snapshot gave
// at submission time.
type CreateResult struct {
	Reservation *domain.Reservation
	TargetName  string
}

// Create validates the slot against the policy and the availability snapshot,
// then inserts. The snapshot check gives the user-facing verdict; the database
// exclusion constraint on approved rows is the final word against races the
// snapshot has not seen yet.
func (s *Service) Create(ctx context.Context, userID int64, req CreateReservationRequest) (*CreateResult, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidRange
	}

	now := s.now()
	if !s.policy.IsSelectable(req.StartTime, now) {
		return nil, ErrDayLocked
	}

	target, err := s.targets.Target(ctx, req.TargetID)
	if err != nil {
		return nil, ErrTargetNotBookable
	}

	snap := s.snapshot.Current()
	switch availability.CheckSlot(req.TargetID, req.StartTime, req.EndTime, snap.Reservations) {
	case availability.HardConflict:
		return nil, ErrHardConflict
	case availability.SoftConflict:
		return nil, ErrSoftConflict
	}

	res := &domain.Reservation{
		UserID:        userID,
		ResourceID:    target.ParentID,
		TargetID:      target.ID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        domain.ReservationPending,
		UsageLocation: req.UsageLocation,
		Activity:      req.Activity,
	}
	if violations := validator.Validate(res); violations != nil {
		return nil, ErrValidation
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
			return nil, ErrHardConflict
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ReservationCreated(res, target.Name)
	}
	return &CreateResult{Reservation: res, TargetName: target.Name}, nil
}

func (s *Service) MyReservations(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	return s.reservations.GetByUserID(ctx, userID)
}

// Cancel lets the owner withdraw a pending or approved reservation, provided
// more than the cutoff remains before its start. The reason is mandatory.
func (s *Service) Cancel(ctx context.Context, userID, reservationID int64, reason string) (*domain.Reservation, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if res.UserID != userID {
		return nil, ErrForbidden
	}
	if !res.CanTransition(domain.ReservationCancelled) {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	if !s.policy.CanCancel(res.StartTime, now) {
		return nil, ErrCancelCutoff
	}

	if err := s.reservations.CancelWithReason(ctx, res.ID, reason, now); err != nil {
		return nil, err
	}

	res.Status = domain.ReservationCancelled
	res.CancelReason = reason
	res.CancelledAt = &now
	return res, nil
}

// DeclareIntention records demand for an already taken slot. No conflict or
// lock-window check applies: any number of intentions may pile up on the same
// interval and none of them blocks anything.
func (s *Service) DeclareIntention(ctx context.Context, userID int64, req DeclareIntentionRequest) (*domain.Intention, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidRange
	}
	if _, err := s.targets.Target(ctx, req.TargetID); err != nil {
		return nil, ErrTargetNotBookable
	}

	in := &domain.Intention{
		UserID:    userID,
		TargetID:  req.TargetID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		CreatedAt: s.now(),
	}
	if err := s.intentions.Create(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}
