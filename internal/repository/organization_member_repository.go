package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lpk-cms-api/internal/models"
)

const organizationMemberColumns = `id, name, position, photo_url, parent_id, "order", level, created_at, updated_at`

// OrganizationMemberRepository handles persistence for the organization chart.
type OrganizationMemberRepository struct {
	db *sqlx.DB
}

// NewOrganizationMemberRepository creates a new repository instance.
func NewOrganizationMemberRepository(db *sqlx.DB) *OrganizationMemberRepository {
	return &OrganizationMemberRepository{db: db}
}

// List returns members matching filter, ordered by sibling order then creation time.
func (r *OrganizationMemberRepository) List(ctx context.Context, filter models.OrganizationMemberFilter) ([]models.OrganizationMember, error) {
	var where whereClause
	switch {
	case filter.RootsOnly:
		where.addRaw("parent_id IS NULL")
	case filter.ParentID != nil:
		where.add("parent_id = ?", *filter.ParentID)
	}
	if filter.Level != nil {
		where.add("level = ?", *filter.Level)
	}

	query := fmt.Sprintf(`SELECT %s FROM organization_members%s ORDER BY "order" ASC, created_at ASC, id ASC`, organizationMemberColumns, where.String())
	members := make([]models.OrganizationMember, 0)
	if err := r.db.SelectContext(ctx, &members, query, where.args...); err != nil {
		return nil, fmt.Errorf("list organization members: %w", err)
	}
	return members, nil
}

// FindByID returns a member by id.
func (r *OrganizationMemberRepository) FindByID(ctx context.Context, id int64) (*models.OrganizationMember, error) {
	var member models.OrganizationMember
	if err := r.db.GetContext(ctx, &member, "SELECT "+organizationMemberColumns+" FROM organization_members WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &member, nil
}

// ParentOf returns the parent id of member id. found is false when the member does not exist.
func (r *OrganizationMemberRepository) ParentOf(ctx context.Context, id int64) (parentID *int64, found bool, err error) {
	if err := r.db.GetContext(ctx, &parentID, `SELECT parent_id FROM organization_members WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load organization member parent: %w", err)
	}
	return parentID, true, nil
}

// CountChildren returns how many members report directly to id.
func (r *OrganizationMemberRepository) CountChildren(ctx context.Context, id int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM organization_members WHERE parent_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count organization member children: %w", err)
	}
	return count, nil
}

// Create persists a member.
func (r *OrganizationMemberRepository) Create(ctx context.Context, member *models.OrganizationMember) error {
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	const query = `INSERT INTO organization_members (name, position, photo_url, parent_id, "order", level, created_at, updated_at)
		VALUES (:name, :position, :photo_url, :parent_id, :order, :level, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, r.db, query, member)
	if err != nil {
		return fmt.Errorf("create organization member: %w", err)
	}
	member.ID = id
	return nil
}

// Update modifies a member.
func (r *OrganizationMemberRepository) Update(ctx context.Context, member *models.OrganizationMember) error {
	member.UpdatedAt = time.Now().UTC()
	const query = `UPDATE organization_members SET name = :name, position = :position, photo_url = :photo_url, parent_id = :parent_id,
		"order" = :order, level = :level, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("update organization member: %w", err)
	}
	return nil
}

// Delete removes a member.
func (r *OrganizationMemberRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM organization_members WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete organization member: %w", err)
	}
	return nil
}
