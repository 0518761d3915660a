package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reserva/internal/domain"
)

type PushSubscriptionRepository struct {
	db *gorm.DB
}

func NewPushSubscriptionRepository(db *gorm.DB) *PushSubscriptionRepository {
	return &PushSubscriptionRepository{db: db}
}

type pushSubscriptionModel struct {
	Endpoint  string    `gorm:"column:endpoint;primaryKey"`
	UserID    int64     `gorm:"column:user_id;index"`
	P256DH    string    `gorm:"column:p256dh"`
	Auth      string    `gorm:"column:auth"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (pushSubscriptionModel) TableName() string { return "push_subscriptions" }

func toDomainPushSubscription(m pushSubscriptionModel) *domain.PushSubscription {
	return &domain.PushSubscription{
		Endpoint:  m.Endpoint,
		UserID:    m.UserID,
		P256DH:    m.P256DH,
		Auth:      m.Auth,
		CreatedAt: m.CreatedAt,
	}
}

// Upsert registers an endpoint, reassigning it if another user now owns the
// browser session.
func (r *PushSubscriptionRepository) Upsert(ctx context.Context, sub *domain.PushSubscription) error {
	m := pushSubscriptionModel{
		Endpoint:  sub.Endpoint,
		UserID:    sub.UserID,
		P256DH:    sub.P256DH,
		Auth:      sub.Auth,
		CreatedAt: sub.CreatedAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
		}).
		Create(&m).Error
}

func (r *PushSubscriptionRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	return r.db.WithContext(ctx).
		Where("endpoint = ?", endpoint).
		Delete(&pushSubscriptionModel{}).Error
}

func (r *PushSubscriptionRepository) ListByUser(ctx context.Context, userID int64) ([]domain.PushSubscription, error) {
	var rows []pushSubscriptionModel
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.PushSubscription, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPushSubscription(m))
	}
	return out, nil
}

// ListAdmins returns subscriptions belonging to active administrators, used
// to announce new pending reservations.
func (r *PushSubscriptionRepository) ListAdmins(ctx context.Context) ([]domain.PushSubscription, error) {
	var rows []pushSubscriptionModel
	tx := r.db.WithContext(ctx).
		Table("push_subscriptions").
		Select("push_subscriptions.*").
		Joins("JOIN users u ON u.id = push_subscriptions.user_id").
		Where("u.role = ? AND u.is_active = ?", string(domain.RoleAdmin), true).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.PushSubscription, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPushSubscription(m))
	}
	return out, nil
}

// DeleteStale drops subscriptions for users deactivated before cutoff.
func (r *PushSubscriptionRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("user_id IN (?)", r.db.
			Table("users").
			Select("id").
			Where("is_active = ? AND updated_at < ?", false, cutoff)).
		Delete(&pushSubscriptionModel{})
	return tx.RowsAffected, tx.Error
}
