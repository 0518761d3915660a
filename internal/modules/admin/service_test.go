package admin

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reserva/internal/availability"
	"reserva/internal/domain"
	"reserva/internal/modules/catalog"
	"reserva/internal/repository"
)

type mockAdminRepo struct {
	mock.Mock
}

func (m *mockAdminRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *mockAdminRepo) Decide(ctx context.Context, id int64, status domain.ReservationStatus, reason string, adminID int64, at time.Time) error {
	args := m.Called(ctx, id, status, reason, adminID, at)
	return args.Error(0)
}

func (m *mockAdminRepo) ListAdmin(ctx context.Context, f repository.AdminListFilter, limit, offset int) ([]repository.AdminReservationRow, error) {
	args := m.Called(ctx, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.AdminReservationRow), args.Error(1)
}

func (m *mockAdminRepo) CountByStatus(ctx context.Context, status domain.ReservationStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAdminRepo) CountStartingBetween(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAdminRepo) MostRequestedTarget(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockAdminRepo) UsageByTarget(ctx context.Context, f repository.AdminListFilter) ([]repository.UsageRow, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.UsageRow), args.Error(1)
}

type mockIntentionReader struct {
	mock.Mock
}

func (m *mockIntentionReader) CountSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockIntentionReader) ListByTarget(ctx context.Context, targetID int64, from, to time.Time) ([]domain.Intention, error) {
	args := m.Called(ctx, targetID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Intention), args.Error(1)
}

type stubLanes struct {
	lanes []catalog.Lane
}

func (s stubLanes) Lanes(ctx context.Context) ([]catalog.Lane, error) {
	return s.lanes, nil
}

type stubSnapshot struct {
	reservations []domain.Reservation
}

func (s stubSnapshot) Current() availability.Snapshot {
	return availability.Snapshot{Generation: 1, Reservations: s.reservations}
}

type recordingNotifier struct {
	decided []*domain.Reservation
}

func (r *recordingNotifier) ReservationDecided(res *domain.Reservation) {
	r.decided = append(r.decided, res)
}

var testNow = time.Date(2026, time.September, 10, 12, 0, 0, 0, time.UTC)

func at(dayOffset, hour int) time.Time {
	return time.Date(2026, time.September, 10+dayOffset, hour, 0, 0, 0, time.UTC)
}

func newTestService(repo *mockAdminRepo, intents *mockIntentionReader, lanes stubLanes, snap SnapshotReader, n Notifier) *Service {
	s := NewService(repo, intents, lanes, snap, availability.DefaultPolicy(), n)
	s.now = func() time.Time { return testNow }
	return s
}

func TestService_Approve_Success(t *testing.T) {
	repo := new(mockAdminRepo)
	notifier := &recordingNotifier{}

	repo.On("GetByID", mock.Anything, int64(30)).Return(&domain.Reservation{
		ID: 30, UserID: 7, Status: domain.ReservationPending,
	}, nil)
	repo.On("Decide", mock.Anything, int64(30), domain.ReservationApproved, "", int64(1), testNow).Return(nil)

	service := newTestService(repo, nil, stubLanes{}, stubSnapshot{}, notifier)

	res, err := service.Approve(context.Background(), 1, 30)

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationApproved, res.Status)
	assert.Equal(t, int64(1), *res.DecidedBy)
	assert.Len(t, notifier.decided, 1)
	repo.AssertExpectations(t)
}

func TestService_Approve_ExclusionViolation(t *testing.T) {
	repo := new(mockAdminRepo)

	repo.On("GetByID", mock.Anything, int64(31)).Return(&domain.Reservation{
		ID: 31, Status: domain.ReservationPending,
	}, nil)
	repo.On("Decide", mock.Anything, int64(31), domain.ReservationApproved, "", int64(1), testNow).
		Return(&pgconn.PgError{Code: "23P01", ConstraintName: "reservations_no_overlap"})

	service := newTestService(repo, nil, stubLanes{}, stubSnapshot{}, nil)

	_, err := service.Approve(context.Background(), 1, 31)
	assert.ErrorIs(t, err, ErrApproveConflict)
}

func TestService_Approve_AlreadyDecided(t *testing.T) {
	repo := new(mockAdminRepo)

	repo.On("GetByID", mock.Anything, int64(32)).Return(&domain.Reservation{
		ID: 32, Status: domain.ReservationRefused,
	}, nil)

	service := newTestService(repo, nil, stubLanes{}, stubSnapshot{}, nil)

	_, err := service.Approve(context.Background(), 1, 32)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_Refuse_RequiresReason(t *testing.T) {
	service := newTestService(new(mockAdminRepo), nil, stubLanes{}, stubSnapshot{}, nil)

	_, err := service.Refuse(context.Background(), 1, 33, "")
	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestService_Refuse_Success(t *testing.T) {
	repo := new(mockAdminRepo)

	repo.On("GetByID", mock.Anything, int64(33)).Return(&domain.Reservation{
		ID: 33, Status: domain.ReservationPending,
	}, nil)
	repo.On("Decide", mock.Anything, int64(33), domain.ReservationRefused, "equipment in maintenance", int64(1), testNow).Return(nil)

	service := newTestService(repo, nil, stubLanes{}, stubSnapshot{}, nil)

	res, err := service.Refuse(context.Background(), 1, 33, "equipment in maintenance")

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationRefused, res.Status)
	assert.Equal(t, "equipment in maintenance", res.RefusalReason)
}

func TestService_Approve_NotFound(t *testing.T) {
	repo := new(mockAdminRepo)
	repo.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(repo, nil, stubLanes{}, stubSnapshot{}, nil)

	_, err := service.Approve(context.Background(), 1, 404)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestService_DayGrid_GroupLaneUnions(t *testing.T) {
	lanes := stubLanes{lanes: []catalog.Lane{
		{Key: "target:Meeting Room", Label: "Meeting Room", TargetIDs: []int64{1}},
		{Key: "Streaming", Label: "Streaming", TargetIDs: []int64{4, 5}},
	}}
	snap := stubSnapshot{reservations: []domain.Reservation{
		{ID: 1, TargetID: 4, StartTime: at(5, 9), EndTime: at(5, 10), Status: domain.ReservationApproved},
		{ID: 2, TargetID: 5, StartTime: at(5, 14), EndTime: at(5, 15), Status: domain.ReservationPending},
		{ID: 3, TargetID: 1, StartTime: at(5, 9), EndTime: at(5, 10), Status: domain.ReservationApproved},
		{ID: 4, TargetID: 1, StartTime: at(6, 9), EndTime: at(6, 10), Status: domain.ReservationApproved},
	}}

	service := newTestService(new(mockAdminRepo), nil, lanes, snap, nil)

	grid, err := service.DayGrid(context.Background(), "2026-09-15")

	assert.NoError(t, err)
	assert.Len(t, grid.Lanes, 2)
	assert.Len(t, grid.Lanes[0].Reservations, 1)
	// Both streaming accounts fold into the one lane.
	assert.Len(t, grid.Lanes[1].Reservations, 2)
}

func TestService_Week_SixDaysWithStatuses(t *testing.T) {
	lanes := stubLanes{lanes: []catalog.Lane{
		{Key: "target:Meeting Room", Label: "Meeting Room", TargetIDs: []int64{1}},
	}}
	// 2026-09-15 is a Tuesday; the strip runs Mon 14 through Sat 19.
	snap := stubSnapshot{reservations: []domain.Reservation{
		{TargetID: 1, StartTime: at(5, 9), EndTime: at(5, 10), Status: domain.ReservationApproved},
		{TargetID: 1, StartTime: at(7, 9), EndTime: at(7, 10), Status: domain.ReservationPending},
	}}

	service := newTestService(new(mockAdminRepo), nil, lanes, snap, nil)

	view, err := service.Week(context.Background(), "2026-09-15")

	assert.NoError(t, err)
	assert.Equal(t, []string{"2026-09-14", "2026-09-15", "2026-09-16", "2026-09-17", "2026-09-18", "2026-09-19"}, view.Days)
	assert.Len(t, view.Lanes, 1)
	assert.Equal(t, availability.DayHasApproved, view.Lanes[0].Days["2026-09-15"])
	assert.Equal(t, availability.DayHasPending, view.Lanes[0].Days["2026-09-17"])
	assert.Equal(t, availability.DayFree, view.Lanes[0].Days["2026-09-14"])
}

func TestService_Dashboard(t *testing.T) {
	repo := new(mockAdminRepo)
	intents := new(mockIntentionReader)

	today := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	repo.On("CountByStatus", mock.Anything, domain.ReservationPending).Return(int64(4), nil)
	repo.On("CountStartingBetween", mock.Anything, today, today.AddDate(0, 0, 1)).Return(int64(2), nil)
	repo.On("MostRequestedTarget", mock.Anything).Return("Meeting Room", nil)
	intents.On("CountSince", mock.Anything, testNow.AddDate(0, 0, -30)).Return(int64(9), nil)

	service := newTestService(repo, intents, stubLanes{}, stubSnapshot{}, nil)

	stats, err := service.Dashboard(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(4), stats.PendingCount)
	assert.Equal(t, int64(2), stats.TodayCount)
	assert.Equal(t, "Meeting Room", stats.MostRequested)
	assert.Equal(t, int64(9), stats.IntentionsLast30)
}

func TestService_List_DefaultsLimit(t *testing.T) {
	repo := new(mockAdminRepo)
	repo.On("ListAdmin", mock.Anything, mock.Anything, 50, 0).Return([]repository.AdminReservationRow{}, nil)

	service := newTestService(repo, nil, stubLanes{}, stubSnapshot{}, nil)

	_, err := service.List(context.Background(), ListQuery{})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
