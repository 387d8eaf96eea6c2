package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/lpk-cms-api/internal/dto"
	"github.com/noah-isme/lpk-cms-api/internal/models"
	"github.com/noah-isme/lpk-cms-api/internal/repository"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
)

type organizationMemberRepository interface {
	List(ctx context.Context, filter models.OrganizationMemberFilter) ([]models.OrganizationMember, error)
	FindByID(ctx context.Context, id int64) (*models.OrganizationMember, error)
	ParentOf(ctx context.Context, id int64) (*int64, bool, error)
	CountChildren(ctx context.Context, id int64) (int, error)
	Create(ctx context.Context, member *models.OrganizationMember) error
	Update(ctx context.Context, member *models.OrganizationMember) error
	Delete(ctx context.Context, id int64) error
}

// NullableInt tells an omitted JSON field apart from an explicit null. Numeric strings are accepted
// and a non-numeric value sets Invalid instead of failing the whole decode.
type NullableInt struct {
	Set     bool
	Value   *int64
	Invalid bool
}

// UnmarshalJSON implements json.Unmarshaler. It only runs when the field is present.
func (n *NullableInt) UnmarshalJSON(raw []byte) error {
	n.Set = true
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		n.Value = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(raw, &id); err == nil {
		n.Value = &id
		return nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if text == "" {
			return nil
		}
		if id, err := strconv.ParseInt(text, 10, 64); err == nil {
			n.Value = &id
			return nil
		}
	}
	n.Invalid = true
	return nil
}

// CreateOrganizationMemberRequest captures fields for a new member.
type CreateOrganizationMemberRequest struct {
	Name     string      `json:"name"`
	Position string      `json:"position"`
	PhotoURL *string     `json:"photoUrl"`
	ParentID NullableInt `json:"parentId"`
	Order    NullableInt `json:"order"`
	Level    NullableInt `json:"level"`
}

// UpdateOrganizationMemberRequest modifies only the fields that are present. parentId null detaches the member.
type UpdateOrganizationMemberRequest struct {
	Name     *string     `json:"name"`
	Position *string     `json:"position"`
	PhotoURL *string     `json:"photoUrl"`
	ParentID NullableInt `json:"parentId"`
	Order    NullableInt `json:"order"`
	Level    NullableInt `json:"level"`
}

// OrganizationService manages the organization chart.
type OrganizationService struct {
	repo   organizationMemberRepository
	logger *zap.Logger
}

// NewOrganizationService creates a new organization service.
func NewOrganizationService(repo organizationMemberRepository, logger *zap.Logger) *OrganizationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrganizationService{repo: repo, logger: logger}
}

// List returns members matching filter ordered by sibling order.
func (s *OrganizationService) List(ctx context.Context, filter models.OrganizationMemberFilter) ([]models.OrganizationMember, error) {
	members, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list organization members")
	}
	return members, nil
}

// Tree rebuilds the full hierarchy from the current member list.
func (s *OrganizationService) Tree(ctx context.Context) ([]*dto.OrganizationNode, error) {
	members, err := s.repo.List(ctx, models.OrganizationMemberFilter{})
	if err != nil {
		return nil, internalError(err, "failed to load organization members")
	}
	if dangling := danglingMembers(members); len(dangling) > 0 {
		s.logger.Warn("organization members reference missing parents", zap.Int64s("member_ids", dangling))
	}
	return BuildOrganizationTree(members), nil
}

// Get returns a member by id.
func (s *OrganizationService) Get(ctx context.Context, id int64) (*models.OrganizationMember, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, appErrors.Clone(appErrors.ErrNotFound, "member not found"), "member")
	}
	return member, nil
}

// Create adds a member under an existing parent or as a root.
func (s *OrganizationService) Create(ctx context.Context, req CreateOrganizationMemberRequest) (*models.OrganizationMember, error) {
	if err := requireFields(
		requiredField{"INVALID_NAME", "name", req.Name},
		requiredField{"INVALID_POSITION", "position", req.Position},
	); err != nil {
		return nil, err
	}
	if req.ParentID.Invalid {
		return nil, appErrors.Validation("INVALID_PARENT_ID", "parent id must be a valid integer")
	}
	if req.ParentID.Value != nil && *req.ParentID.Value > 0 {
		if err := s.ensureParentExists(ctx, *req.ParentID.Value); err != nil {
			return nil, err
		}
	}
	level, order, err := levelAndOrder(req.Level, req.Order)
	if err != nil {
		return nil, err
	}

	member := &models.OrganizationMember{
		Name:     trim(req.Name),
		Position: trim(req.Position),
		PhotoURL: optionalString(req.PhotoURL),
		ParentID: parentRef(req.ParentID),
	}
	if level != nil {
		member.Level = *level
	}
	if order != nil {
		member.Order = *order
	}

	if err := s.repo.Create(ctx, member); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.ErrParentNotFound
		}
		return nil, internalError(err, "failed to create member")
	}
	return member, nil
}

// Update applies the provided fields. An unknown member is NOT_FOUND before any field is validated.
// A new parent must exist and must not be the member or one of its descendants.
func (s *OrganizationService) Update(ctx context.Context, id int64, req UpdateOrganizationMemberRequest) (*models.OrganizationMember, error) {
	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ParentID.Invalid {
		return nil, appErrors.Validation("INVALID_PARENT_ID", "parent id must be a valid integer")
	}
	if req.ParentID.Value != nil && *req.ParentID.Value == id {
		return nil, appErrors.Clone(appErrors.ErrCircularReference, "a member cannot be its own parent")
	}
	level, order, err := levelAndOrder(req.Level, req.Order)
	if err != nil {
		return nil, err
	}

	if err := patchString(&member.Name, req.Name, "INVALID_NAME", "name"); err != nil {
		return nil, err
	}
	if err := patchString(&member.Position, req.Position, "INVALID_POSITION", "position"); err != nil {
		return nil, err
	}
	patchOptional(&member.PhotoURL, req.PhotoURL)
	if level != nil {
		member.Level = *level
	}
	if order != nil {
		member.Order = *order
	}
	if req.ParentID.Set {
		parentID := parentRef(req.ParentID)
		if parentID != nil {
			if err := s.ensureNoCycle(ctx, id, *parentID); err != nil {
				return nil, err
			}
		}
		member.ParentID = parentID
	}

	if err := s.repo.Update(ctx, member); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.ErrParentNotFound
		}
		return nil, internalError(err, "failed to update member")
	}
	return member, nil
}

// Delete removes a member that has no direct reports.
func (s *OrganizationService) Delete(ctx context.Context, id int64) (*models.OrganizationMember, error) {
	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return nil, internalError(err, "failed to check subordinates")
	}
	if children > 0 {
		return nil, appErrors.Clone(appErrors.ErrHasSubordinates, fmt.Sprintf("member has %d subordinates; reassign them first", children))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.ErrHasSubordinates
		}
		return nil, internalError(err, "failed to delete member")
	}
	return member, nil
}

func (s *OrganizationService) ensureParentExists(ctx context.Context, parentID int64) error {
	_, found, err := s.repo.ParentOf(ctx, parentID)
	if err != nil {
		return internalError(err, "failed to load parent member")
	}
	if !found {
		return appErrors.ErrParentNotFound
	}
	return nil
}

// ensureNoCycle walks up from parentID and fails if it reaches id.
func (s *OrganizationService) ensureNoCycle(ctx context.Context, id, parentID int64) error {
	if parentID == id {
		return appErrors.Clone(appErrors.ErrCircularReference, "a member cannot be its own parent")
	}
	visited := map[int64]struct{}{}
	current := parentID
	for {
		if current == id {
			return appErrors.ErrCircularReference
		}
		if _, seen := visited[current]; seen {
			// pre-existing loop above the new parent; refuse to extend it
			return appErrors.ErrCircularReference
		}
		visited[current] = struct{}{}

		next, found, err := s.repo.ParentOf(ctx, current)
		if err != nil {
			return internalError(err, "failed to walk member ancestry")
		}
		if !found {
			if current == parentID {
				return appErrors.ErrParentNotFound
			}
			return nil
		}
		if next == nil {
			return nil
		}
		current = *next
	}
}

// parentRef maps 0 to "no parent" the same way null does.
func parentRef(n NullableInt) *int64 {
	if n.Value == nil || *n.Value == 0 {
		return nil
	}
	return n.Value
}

// levelAndOrder validates the optional level and order fields. Nil results mean "leave unchanged".
func levelAndOrder(levelField, orderField NullableInt) (*int, *int, error) {
	var level, order *int
	if levelField.Invalid {
		return nil, nil, appErrors.Validation("INVALID_LEVEL", "level must be an integer between 0 and 2")
	}
	if levelField.Value != nil {
		v := int(*levelField.Value)
		if v < models.MinOrganizationLevel || v > models.MaxOrganizationLevel {
			return nil, nil, appErrors.Validation("INVALID_LEVEL", "level must be an integer between 0 and 2")
		}
		level = &v
	}
	if orderField.Invalid {
		return nil, nil, appErrors.Validation("INVALID_ORDER", "order must be a valid integer")
	}
	if orderField.Value != nil {
		v := int(*orderField.Value)
		order = &v
	}
	return level, order, nil
}
