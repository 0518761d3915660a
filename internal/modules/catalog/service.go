package catalog

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"reserva/internal/domain"
)

// Service assembles the catalog tree and the flattened bookable target list
// from the flat resource table.
type Service struct {
	resources ResourceRepositoryInterface
}

func NewService(resources ResourceRepositoryInterface) *Service {
	return &Service{resources: resources}
}

// Tree returns the active catalog as nested nodes. A node is bookable when it
// is a leaf: either a sub-resource or a top-level resource with no children.
func (s *Service) Tree(ctx context.Context) ([]ResourceNode, error) {
	rows, err := s.resources.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	children := make(map[int64][]domain.Resource)
	var roots []domain.Resource
	for _, r := range rows {
		if r.ParentID == nil {
			roots = append(roots, r)
			continue
		}
		children[*r.ParentID] = append(children[*r.ParentID], r)
	}

	nodes := make([]ResourceNode, 0, len(roots))
	for _, root := range roots {
		kids := children[root.ID]
		node := ResourceNode{
			ID:        root.ID,
			Name:      root.Name,
			IconKey:   root.IconKey,
			GroupLane: root.GroupLane,
			SortOrder: root.SortOrder,
			Bookable:  len(kids) == 0,
		}
		for _, kid := range kids {
			node.Children = append(node.Children, ResourceNode{
				ID:        kid.ID,
				Name:      kid.Name,
				IconKey:   kid.IconKey,
				GroupLane: kid.GroupLane,
				SortOrder: kid.SortOrder,
				Bookable:  true,
			})
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Targets flattens the active catalog to its bookable leaves. Top-level
// leaves report themselves as their own parent so a reservation's resource id
// is always fillable from the target alone.
func (s *Service) Targets(ctx context.Context) ([]domain.BookableTarget, error) {
	rows, err := s.resources.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return flattenTargets(rows), nil
}

func flattenTargets(rows []domain.Resource) []domain.BookableTarget {
	byID := make(map[int64]domain.Resource, len(rows))
	hasChildren := make(map[int64]bool)
	for _, r := range rows {
		byID[r.ID] = r
		if r.ParentID != nil {
			hasChildren[*r.ParentID] = true
		}
	}

	var out []domain.BookableTarget
	for _, r := range rows {
		if r.ParentID == nil {
			if hasChildren[r.ID] {
				continue
			}
			out = append(out, domain.BookableTarget{
				ID:         r.ID,
				Name:       r.Name,
				ParentID:   r.ID,
				ParentName: r.Name,
				GroupLane:  r.GroupLane,
			})
			continue
		}

		parent, ok := byID[*r.ParentID]
		if !ok {
			continue
		}
		lane := r.GroupLane
		if lane == "" {
			lane = parent.GroupLane
		}
		out = append(out, domain.BookableTarget{
			ID:         r.ID,
			Name:       r.Name,
			ParentID:   parent.ID,
			ParentName: parent.Name,
			GroupLane:  lane,
		})
	}
	return out
}

// Target resolves a single bookable leaf by id.
func (s *Service) Target(ctx context.Context, id int64) (*domain.BookableTarget, error) {
	targets, err := s.Targets(ctx)
	if err != nil {
		return nil, err
	}
	for i := range targets {
		if targets[i].ID == id {
			return &targets[i], nil
		}
	}
	return nil, ErrNotBookable
}

// Lanes folds the target list into grid display rows. Targets sharing a group
// lane collapse into one row whose statuses union across its members.
func (s *Service) Lanes(ctx context.Context) ([]Lane, error) {
	targets, err := s.Targets(ctx)
	if err != nil {
		return nil, err
	}
	return buildLanes(targets), nil
}

func buildLanes(targets []domain.BookableTarget) []Lane {
	byKey := make(map[string]*Lane)
	var order []string
	for _, t := range targets {
		key := t.GroupLane
		label := t.GroupLane
		if key == "" {
			key = "target:" + t.Name
			label = t.Name
		}
		lane, ok := byKey[key]
		if !ok {
			lane = &Lane{Key: key, Label: label}
			byKey[key] = lane
			order = append(order, key)
		}
		lane.TargetIDs = append(lane.TargetIDs, t.ID)
		lane.Targets = append(lane.Targets, t)
	}

	out := make([]Lane, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}

func (s *Service) CreateResource(ctx context.Context, req CreateResourceRequest) (*domain.Resource, error) {
	if req.ParentID != nil {
		parent, err := s.resources.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.ParentID != nil {
			return nil, ErrNestedParent
		}
	}

	res := &domain.Resource{
		ParentID:  req.ParentID,
		Name:      req.Name,
		IconKey:   req.IconKey,
		GroupLane: req.GroupLane,
		SortOrder: req.SortOrder,
		IsActive:  true,
	}
	if err := s.resources.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) UpdateResource(ctx context.Context, id int64, req UpdateResourceRequest) (*domain.Resource, error) {
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		res.Name = req.Name
	}
	if req.IconKey != "" {
		res.IconKey = req.IconKey
	}
	if req.GroupLane != "" {
		res.GroupLane = req.GroupLane
	}
	if req.SortOrder != nil {
		res.SortOrder = *req.SortOrder
	}

	if err := s.resources.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) SetResourceActive(ctx context.Context, id int64, active bool) error {
	if _, err := s.resources.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		return err
	}
	return s.resources.SetActive(ctx, id, active)
}

// SortTargets orders a target slice for stable display: by parent name, then
// by own name.
func SortTargets(targets []domain.BookableTarget) {
	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].ParentName != targets[j].ParentName {
			return targets[i].ParentName < targets[j].ParentName
		}
		return targets[i].Name < targets[j].Name
	})
}
