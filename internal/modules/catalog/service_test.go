package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reserva/internal/domain"
)

type mockResourceRepo struct {
	mock.Mock
}

func (m *mockResourceRepo) ListActive(ctx context.Context) ([]domain.Resource, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Resource), args.Error(1)
}

func (m *mockResourceRepo) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resource), args.Error(1)
}

func (m *mockResourceRepo) Create(ctx context.Context, res *domain.Resource) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *mockResourceRepo) Update(ctx context.Context, res *domain.Resource) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *mockResourceRepo) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func ptr(v int64) *int64 { return &v }

// A small catalog: a bookable room, a projector, and a streaming parent with
// two sub-accounts sharing a display lane.
func sampleCatalog() []domain.Resource {
	return []domain.Resource{
		{ID: 1, Name: "Meeting Room", SortOrder: 1, IsActive: true},
		{ID: 2, Name: "Projector", SortOrder: 2, IsActive: true},
		{ID: 3, Name: "Streaming", GroupLane: "Streaming", SortOrder: 3, IsActive: true},
		{ID: 4, ParentID: ptr(3), Name: "Disney+", IsActive: true},
		{ID: 5, ParentID: ptr(3), Name: "Netflix", IsActive: true},
	}
}

func TestService_Tree(t *testing.T) {
	repo := new(mockResourceRepo)
	repo.On("ListActive", mock.Anything).Return(sampleCatalog(), nil)

	service := NewService(repo)
	tree, err := service.Tree(context.Background())

	assert.NoError(t, err)
	assert.Len(t, tree, 3)

	assert.True(t, tree[0].Bookable)
	assert.True(t, tree[1].Bookable)

	streaming := tree[2]
	assert.False(t, streaming.Bookable)
	assert.Len(t, streaming.Children, 2)
	assert.True(t, streaming.Children[0].Bookable)
}

func TestService_Targets_FlattensLeaves(t *testing.T) {
	repo := new(mockResourceRepo)
	repo.On("ListActive", mock.Anything).Return(sampleCatalog(), nil)

	service := NewService(repo)
	targets, err := service.Targets(context.Background())

	assert.NoError(t, err)
	assert.Len(t, targets, 4)

	ids := make([]int64, 0, len(targets))
	for _, tg := range targets {
		ids = append(ids, tg.ID)
	}
	assert.ElementsMatch(t, []int64{1, 2, 4, 5}, ids)

	for _, tg := range targets {
		switch tg.ID {
		case 1:
			assert.Equal(t, int64(1), tg.ParentID)
			assert.Equal(t, "Meeting Room", tg.ParentName)
		case 4:
			assert.Equal(t, int64(3), tg.ParentID)
			assert.Equal(t, "Streaming", tg.ParentName)
			assert.Equal(t, "Streaming", tg.GroupLane)
		}
	}
}

func TestService_Lanes_GroupsByLane(t *testing.T) {
	repo := new(mockResourceRepo)
	repo.On("ListActive", mock.Anything).Return(sampleCatalog(), nil)

	service := NewService(repo)
	lanes, err := service.Lanes(context.Background())

	assert.NoError(t, err)
	assert.Len(t, lanes, 3)

	var streaming *Lane
	for i := range lanes {
		if lanes[i].Label == "Streaming" {
			streaming = &lanes[i]
		}
	}
	assert.NotNil(t, streaming)
	assert.ElementsMatch(t, []int64{4, 5}, streaming.TargetIDs)
}

func TestService_Target_RejectsCategory(t *testing.T) {
	repo := new(mockResourceRepo)
	repo.On("ListActive", mock.Anything).Return(sampleCatalog(), nil)

	service := NewService(repo)

	_, err := service.Target(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotBookable)

	tg, err := service.Target(context.Background(), 4)
	assert.NoError(t, err)
	assert.Equal(t, "Disney+", tg.Name)
}

func TestService_CreateResource_RejectsNestedParent(t *testing.T) {
	repo := new(mockResourceRepo)
	repo.On("GetByID", mock.Anything, int64(4)).Return(&domain.Resource{ID: 4, ParentID: ptr(3)}, nil)

	service := NewService(repo)

	_, err := service.CreateResource(context.Background(), CreateResourceRequest{
		Name:     "Too Deep",
		ParentID: ptr(4),
	})
	assert.ErrorIs(t, err, ErrNestedParent)
}

func TestService_CreateResource_MissingParent(t *testing.T) {
	repo := new(mockResourceRepo)
	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(repo)

	_, err := service.CreateResource(context.Background(), CreateResourceRequest{
		Name:     "Orphan",
		ParentID: ptr(99),
	})
	assert.ErrorIs(t, err, ErrParentNotFound)
}
