package catalog

import (
	"context"

	"reserva/internal/domain"
)

// ResourceRepositoryInterface covers only the methods the catalog service uses.
type ResourceRepositoryInterface interface {
	ListActive(ctx context.Context) ([]domain.Resource, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	Create(ctx context.Context, res *domain.Resource) error
	Update(ctx context.Context, res *domain.Resource) error
	SetActive(ctx context.Context, id int64, active bool) error
}
