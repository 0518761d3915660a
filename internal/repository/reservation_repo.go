package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"reserva/internal/domain"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

type reservationModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	UserID        int64      `gorm:"column:user_id;index"`
	ResourceID    int64      `gorm:"column:resource_id"`
	TargetID      int64      `gorm:"column:target_id;index"`
	StartTime     time.Time  `gorm:"column:start_time"`
	EndTime       time.Time  `gorm:"column:end_time"`
	Status        string     `gorm:"column:status;index"`
	UsageLocation *string    `gorm:"column:usage_location"`
	Activity      *string    `gorm:"column:activity"`
	RefusalReason *string    `gorm:"column:refusal_reason"`
	CancelReason  *string    `gorm:"column:cancel_reason"`
	DecidedBy     *int64     `gorm:"column:decided_by"`
	DecidedAt     *time.Time `gorm:"column:decided_at"`
	CancelledAt   *time.Time `gorm:"column:cancelled_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (reservationModel) TableName() string { return "reservations" }

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}

func toDomainReservation(m reservationModel) *domain.Reservation {
	return &domain.Reservation{
		ID:            m.ID,
		UserID:        m.UserID,
		ResourceID:    m.ResourceID,
		TargetID:      m.TargetID,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
		Status:        domain.ReservationStatus(m.Status),
		UsageLocation: strOrEmpty(m.UsageLocation),
		Activity:      strOrEmpty(m.Activity),
		RefusalReason: strOrEmpty(m.RefusalReason),
		CancelReason:  strOrEmpty(m.CancelReason),
		DecidedBy:     m.DecidedBy,
		DecidedAt:     m.DecidedAt,
		CancelledAt:   m.CancelledAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toReservationModel(r *domain.Reservation) reservationModel {
	return reservationModel{
		ID:            r.ID,
		UserID:        r.UserID,
		ResourceID:    r.ResourceID,
		TargetID:      r.TargetID,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        string(r.Status),
		UsageLocation: strOrNil(r.UsageLocation),
		Activity:      strOrNil(r.Activity),
		RefusalReason: strOrNil(r.RefusalReason),
		CancelReason:  strOrNil(r.CancelReason),
		DecidedBy:     r.DecidedBy,
		DecidedAt:     r.DecidedAt,
		CancelledAt:   r.CancelledAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	m := toReservationModel(res)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*res = *toDomainReservation(m)
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReservation(m), nil
}

// activeStatusValues flattens domain.ActiveStatuses for SQL IN filters.
func activeStatusValues() []string {
	out := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		out[i] = string(s)
	}
	return out
}

// ActiveWindow returns pending and approved reservations intersecting
// [from, to). This feeds the availability snapshot.
func (r *ReservationRepository) ActiveWindow(ctx context.Context, from, to time.Time) ([]domain.Reservation, error) {
	var rows []reservationModel
	tx := r.db.WithContext(ctx).
		Where("status IN ?", activeStatusValues()).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

func (r *ReservationRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	var rows []reservationModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

// Decide moves a reservation to approved or refused, stamping the acting admin.
func (r *ReservationRepository) Decide(ctx context.Context, id int64, status domain.ReservationStatus, reason string, adminID int64, at time.Time) error {
	updates := map[string]any{
		"status":     string(status),
		"decided_by": adminID,
		"decided_at": at,
	}
	if status == domain.ReservationRefused {
		updates["refusal_reason"] = reason
	}
	return r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// CancelWithReason marks a reservation cancelled by its owner.
func (r *ReservationRepository) CancelWithReason(ctx context.Context, id int64, reason string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        string(domain.ReservationCancelled),
			"cancel_reason": reason,
			"cancelled_at":  at,
		}).Error
}

// AdminListFilter narrows the administration list. Zero values mean "any".
type AdminListFilter struct {
	Status    string
	Requester string
	TargetID  int64
	// ResourceID matches the parent resource, covering all its sub-resources.
	ResourceID int64
	Date       string
	From       string
	To         string
	// LocationPrefix matches the stored usage location (department filter).
	LocationPrefix string
}

// AdminReservationRow is a reservation joined with its requester and target
// names, shaped for the administration list and grids.
type AdminReservationRow struct {
	domain.Reservation
	UserName   string `json:"user_name"`
	TargetName string `json:"target_name"`
	ParentName string `json:"parent_name"`
}

type adminRow struct {
	reservationModel
	UserName   string `gorm:"column:user_name"`
	TargetName string `gorm:"column:target_name"`
	ParentName string `gorm:"column:parent_name"`
}

func (r *ReservationRepository) adminQuery(ctx context.Context, f AdminListFilter) *gorm.DB {
	q := r.db.WithContext(ctx).
		Table("reservations").
		Select("reservations.*, u.name AS user_name, t.name AS target_name, p.name AS parent_name").
		Joins("JOIN users u ON u.id = reservations.user_id").
		Joins("JOIN resources t ON t.id = reservations.target_id").
		Joins("JOIN resources p ON p.id = reservations.resource_id")

	if f.Status != "" && f.Status != "all" {
		q = q.Where("reservations.status = ?", f.Status)
	}
	if f.Requester != "" {
		q = q.Where("u.name LIKE ?", "%"+f.Requester+"%")
	}
	if f.TargetID != 0 {
		q = q.Where("reservations.target_id = ?", f.TargetID)
	}
	if f.ResourceID != 0 {
		q = q.Where("reservations.resource_id = ?", f.ResourceID)
	}
	if f.Date != "" {
		day, err := time.Parse("2006-01-02", f.Date)
		if err == nil {
			q = q.Where("reservations.start_time >= ? AND reservations.start_time < ?", day, day.AddDate(0, 0, 1))
		}
	}
	if f.From != "" {
		if from, err := time.Parse("2006-01-02", f.From); err == nil {
			q = q.Where("reservations.start_time >= ?", from)
		}
	}
	if f.To != "" {
		if to, err := time.Parse("2006-01-02", f.To); err == nil {
			q = q.Where("reservations.start_time < ?", to.AddDate(0, 0, 1))
		}
	}
	if f.LocationPrefix != "" {
		q = q.Where("reservations.usage_location LIKE ?", f.LocationPrefix+"%")
	}
	return q
}

func (r *ReservationRepository) ListAdmin(ctx context.Context, f AdminListFilter, limit, offset int) ([]AdminReservationRow, error) {
	var rows []adminRow
	q := r.adminQuery(ctx, f).Order("reservations.start_time DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]AdminReservationRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, AdminReservationRow{
			Reservation: *toDomainReservation(row.reservationModel),
			UserName:    row.UserName,
			TargetName:  row.TargetName,
			ParentName:  row.ParentName,
		})
	}
	return out, nil
}

func (r *ReservationRepository) CountByStatus(ctx context.Context, status domain.ReservationStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("status = ?", string(status)).
		Count(&n).Error
	return n, err
}

// CountStartingBetween counts active reservations starting in [from, to).
func (r *ReservationRepository) CountStartingBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("status IN ?", activeStatusValues()).
		Where("start_time >= ? AND start_time < ?", from, to).
		Count(&n).Error
	return n, err
}

// MostRequestedTarget returns the name of the target with the most
// reservations of any status, or "" when there are none.
func (r *ReservationRepository) MostRequestedTarget(ctx context.Context) (string, error) {
	var row struct {
		Name string `gorm:"column:name"`
	}
	tx := r.db.WithContext(ctx).
		Table("reservations").
		Select("t.name AS name").
		Joins("JOIN resources t ON t.id = reservations.target_id").
		Group("t.name").
		Order("COUNT(1) DESC").
		Limit(1).
		Scan(&row)
	if tx.Error != nil {
		return "", tx.Error
	}
	return row.Name, nil
}

// UsageRow is one line of the usage report: decision counts per target.
type UsageRow struct {
	TargetID   int64  `json:"target_id" gorm:"column:target_id"`
	TargetName string `json:"target_name" gorm:"column:target_name"`
	Approved   int64  `json:"approved" gorm:"column:approved"`
	Pending    int64  `json:"pending" gorm:"column:pending"`
	Refused    int64  `json:"refused" gorm:"column:refused"`
	Cancelled  int64  `json:"cancelled" gorm:"column:cancelled"`
}

func (r *ReservationRepository) UsageByTarget(ctx context.Context, f AdminListFilter) ([]UsageRow, error) {
	q := r.adminQuery(ctx, AdminListFilter{
		From:           f.From,
		To:             f.To,
		TargetID:       f.TargetID,
		ResourceID:     f.ResourceID,
		LocationPrefix: f.LocationPrefix,
	})

	var rows []UsageRow
	err := q.
		Select(`reservations.target_id AS target_id,
t.name AS target_name,
SUM(CASE WHEN reservations.status = 'approved' THEN 1 ELSE 0 END) AS approved,
SUM(CASE WHEN reservations.status = 'pending' THEN 1 ELSE 0 END) AS pending,
SUM(CASE WHEN reservations.status = 'refused' THEN 1 ELSE 0 END) AS refused,
SUM(CASE WHEN reservations.status = 'cancelled' THEN 1 ELSE 0 END) AS cancelled`).
		Group("reservations.target_id, t.name").
		Order("t.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
