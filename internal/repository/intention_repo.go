package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"reserva/internal/domain"
)

type IntentionRepository struct {
	db *gorm.DB
}

func NewIntentionRepository(db *gorm.DB) *IntentionRepository {
	return &IntentionRepository{db: db}
}

type intentionModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;index"`
	TargetID  int64     `gorm:"column:target_id;index"`
	StartTime time.Time `gorm:"column:start_time"`
	EndTime   time.Time `gorm:"column:end_time"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (intentionModel) TableName() string { return "intentions" }

func toDomainIntention(m intentionModel) *domain.Intention {
	return &domain.Intention{
		ID:        m.ID,
		UserID:    m.UserID,
		TargetID:  m.TargetID,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		CreatedAt: m.CreatedAt,
	}
}

func (r *IntentionRepository) Create(ctx context.Context, in *domain.Intention) error {
	m := intentionModel{
		UserID:    in.UserID,
		TargetID:  in.TargetID,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		CreatedAt: in.CreatedAt,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*in = *toDomainIntention(m)
	return nil
}

func (r *IntentionRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&intentionModel{}).
		Where("created_at >= ?", since).
		Count(&n).Error
	return n, err
}

// ListByTarget returns intentions overlapping [from, to) for one target,
// newest first. Admins read this to gauge demand before deciding.
func (r *IntentionRepository) ListByTarget(ctx context.Context, targetID int64, from, to time.Time) ([]domain.Intention, error) {
	var rows []intentionModel
	tx := r.db.WithContext(ctx).
		Where("target_id = ?", targetID).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Intention, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainIntention(m))
	}
	return out, nil
}

func (r *IntentionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("end_time < ?", cutoff).
		Delete(&intentionModel{})
	return tx.RowsAffected, tx.Error
}
