package admin

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"reserva/internal/availability"
	"reserva/internal/domain"
	"reserva/internal/repository"
)

// Service carries the administration flows: deciding reservations, the day
// and week grids, the dashboard and the usage report.
type Service struct {
	reservations ReservationAdminRepository
	intentions   IntentionReader
	lanes        LaneProvider
	snapshot     SnapshotReader
	policy       availability.Policy
	notifier     Notifier
	now          func() time.Time
}

func NewService(
	reservations ReservationAdminRepository,
	intentions IntentionReader,
	lanes LaneProvider,
	snapshot SnapshotReader,
	policy availability.Policy,
	notifier Notifier,
) *Service {
	return &Service{
		reservations: reservations,
		intentions:   intentions,
		lanes:        lanes,
		snapshot:     snapshot,
		policy:       policy,
		notifier:     notifier,
		now:          time.Now,
	}
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]repository.AdminReservationRow, error) {
	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.reservations.ListAdmin(ctx, repository.AdminListFilter{
		Status:         q.Status,
		Requester:      q.Requester,
		TargetID:       q.TargetID,
		ResourceID:     q.ResourceID,
		Date:           q.Date,
		From:           q.From,
		To:             q.To,
		LocationPrefix: q.LocationPrefix,
	}, limit, q.Offset)
}

// Approve moves a pending reservation to approved. The exclusion constraint
// on approved rows is the final overlap authority; a violation surfaces here
// as ErrApproveConflict rather than reaching the client as a plain 500.
func (s *Service) Approve(ctx context.Context, adminID, id int64) (*domain.Reservation, error) {
	return s.decide(ctx, adminID, id, domain.ReservationApproved, "")
}

// Refuse moves a pending reservation to refused. The reason is mandatory and
// is stored verbatim for the requester to read.
func (s *Service) Refuse(ctx context.Context, adminID, id int64, reason string) (*domain.Reservation, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.decide(ctx, adminID, id, domain.ReservationRefused, reason)
}

func (s *Service) decide(ctx context.Context, adminID, id int64, status domain.ReservationStatus, reason string) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if !res.CanTransition(status) {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	if err := s.reservations.Decide(ctx, id, status, reason, adminID, now); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
			return nil, ErrApproveConflict
		}
		return nil, err
	}

	res.Status = status
	res.RefusalReason = reason
	res.DecidedBy = &adminID
	res.DecidedAt = &now

	if s.notifier != nil {
		s.notifier.ReservationDecided(res)
	}
	return res, nil
}

// DayGrid renders one day as lanes, each holding its reservations in start
// order. Grouped targets share a lane, so both streaming accounts land on the
// same row.
func (s *Service) DayGrid(ctx context.Context, date string) (*DayGrid, error) {
	day, err := time.Parse(availability.DateKey, date)
	if err != nil {
		return nil, ErrBadDate
	}

	lanes, err := s.lanes.Lanes(ctx)
	if err != nil {
		return nil, err
	}

	snap := s.snapshot.Current()
	grid := &DayGrid{Date: date, Lanes: make([]GridLane, 0, len(lanes))}
	for _, lane := range lanes {
		grid.Lanes = append(grid.Lanes, GridLane{
			Key:          lane.Key,
			Label:        lane.Label,
			Reservations: availability.ForDay(lane.TargetIDs, day, snap.Reservations),
		})
	}
	return grid, nil
}

// Week renders the Monday to Saturday strip containing date, one status cell
// per lane and day.
func (s *Service) Week(ctx context.Context, date string) (*WeekView, error) {
	day, err := time.Parse(availability.DateKey, date)
	if err != nil {
		return nil, ErrBadDate
	}

	lanes, err := s.lanes.Lanes(ctx)
	if err != nil {
		return nil, err
	}

	days := availability.WorkWeek(day)
	keys := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, d.Format(availability.DateKey))
	}

	snap := s.snapshot.Current()
	view := &WeekView{Days: keys, Lanes: make([]WeekLane, 0, len(lanes))}
	for _, lane := range lanes {
		view.Lanes = append(view.Lanes, WeekLane{
			Key:   lane.Key,
			Label: lane.Label,
			Days:  availability.SummarizeDays(lane.TargetIDs, days, snap.Reservations),
		})
	}
	return view, nil
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	pending, err := s.reservations.CountByStatus(ctx, domain.ReservationPending)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := availability.StartOfDay(now)
	todayCount, err := s.reservations.CountStartingBetween(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	mostRequested, err := s.reservations.MostRequestedTarget(ctx)
	if err != nil {
		return nil, err
	}

	intentions, err := s.intentions.CountSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		PendingCount:     pending,
		TodayCount:       todayCount,
		MostRequested:    mostRequested,
		IntentionsLast30: intentions,
	}, nil
}

func (s *Service) UsageReport(ctx context.Context, q ListQuery) (*UsageReport, error) {
	rows, err := s.reservations.UsageByTarget(ctx, repository.AdminListFilter{
		From:           q.From,
		To:             q.To,
		TargetID:       q.TargetID,
		ResourceID:     q.ResourceID,
		LocationPrefix: q.LocationPrefix,
	})
	if err != nil {
		return nil, err
	}
	return &UsageReport{From: q.From, To: q.To, Rows: rows}, nil
}

// Intentions lists the demand recorded against a target over a window, newest
// first, so an admin deciding a refusal can see who else wanted the slot.
func (s *Service) Intentions(ctx context.Context, targetID int64, from, to string) ([]domain.Intention, error) {
	fromT, err := time.Parse(availability.DateKey, from)
	if err != nil {
		return nil, ErrBadDate
	}
	toT, err := time.Parse(availability.DateKey, to)
	if err != nil {
		return nil, ErrBadDate
	}
	return s.intentions.ListByTarget(ctx, targetID, fromT, toT.AddDate(0, 0, 1))
}
