package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"reserva/internal/domain"
)

type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

type resourceModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	ParentID  *int64    `gorm:"column:parent_id;index"`
	Name      string    `gorm:"column:name"`
	IconKey   string    `gorm:"column:icon_key"`
	GroupLane string    `gorm:"column:group_lane"`
	SortOrder int       `gorm:"column:sort_order"`
	IsActive  bool      `gorm:"column:is_active"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (resourceModel) TableName() string { return "resources" }

func toDomainResource(m resourceModel) *domain.Resource {
	return &domain.Resource{
		ID:        m.ID,
		ParentID:  m.ParentID,
		Name:      m.Name,
		IconKey:   m.IconKey,
		GroupLane: m.GroupLane,
		SortOrder: m.SortOrder,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toResourceModel(res *domain.Resource) resourceModel {
	return resourceModel{
		ID:        res.ID,
		ParentID:  res.ParentID,
		Name:      res.Name,
		IconKey:   res.IconKey,
		GroupLane: res.GroupLane,
		SortOrder: res.SortOrder,
		IsActive:  res.IsActive,
		CreatedAt: res.CreatedAt,
		UpdatedAt: res.UpdatedAt,
	}
}

// ListActive returns every active catalog node, parents and sub-resources
// alike, in display order. The catalog service assembles the tree and the
// flattened target list from this.
func (r *ResourceRepository) ListActive(ctx context.Context) ([]domain.Resource, error) {
	var rows []resourceModel
	tx := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order, name").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Resource, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainResource(m))
	}
	return out, nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	var m resourceModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainResource(m), nil
}

func (r *ResourceRepository) Create(ctx context.Context, res *domain.Resource) error {
	m := toResourceModel(res)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*res = *toDomainResource(m)
	return nil
}

func (r *ResourceRepository) Update(ctx context.Context, res *domain.Resource) error {
	m := toResourceModel(res)
	return r.db.WithContext(ctx).Save(&m).Error
}

// SetActive soft-deletes (or restores) a node and, for parents, its children.
func (r *ResourceRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&resourceModel{}).
		Where("id = ? OR parent_id = ?", id, id).
		Update("is_active", active).Error
}
