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

const profileSectionColumns = `id, section, title, content, image_url, created_at, updated_at`

// ProfileSectionRepository handles persistence for profile page sections.
type ProfileSectionRepository struct {
	db *sqlx.DB
}

// NewProfileSectionRepository creates a new repository instance.
func NewProfileSectionRepository(db *sqlx.DB) *ProfileSectionRepository {
	return &ProfileSectionRepository{db: db}
}

// List returns every section ordered by creation.
func (r *ProfileSectionRepository) List(ctx context.Context) ([]models.ProfileSection, error) {
	sections := make([]models.ProfileSection, 0)
	if err := r.db.SelectContext(ctx, &sections, "SELECT "+profileSectionColumns+" FROM profile_sections ORDER BY created_at ASC, id ASC"); err != nil {
		return nil, fmt.Errorf("list profile sections: %w", err)
	}
	return sections, nil
}

// FindByID returns a section by id.
func (r *ProfileSectionRepository) FindByID(ctx context.Context, id int64) (*models.ProfileSection, error) {
	var section models.ProfileSection
	if err := r.db.GetContext(ctx, &section, "SELECT "+profileSectionColumns+" FROM profile_sections WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &section, nil
}

// FindBySection returns a section by its unique key.
func (r *ProfileSectionRepository) FindBySection(ctx context.Context, key string) (*models.ProfileSection, error) {
	var section models.ProfileSection
	if err := r.db.GetContext(ctx, &section, "SELECT "+profileSectionColumns+" FROM profile_sections WHERE section = $1", key); err != nil {
		return nil, err
	}
	return &section, nil
}

// ExistsBySection checks key uniqueness, ignoring excludeID when non-zero.
func (r *ProfileSectionRepository) ExistsBySection(ctx context.Context, key string, excludeID int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, "SELECT 1 FROM profile_sections WHERE section = $1 AND id <> $2 LIMIT 1", key, excludeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check profile section: %w", err)
	}
	return true, nil
}

// Create persists a section.
func (r *ProfileSectionRepository) Create(ctx context.Context, section *models.ProfileSection) error {
	now := time.Now().UTC()
	section.CreatedAt = now
	section.UpdatedAt = now

	const query = `INSERT INTO profile_sections (section, title, content, image_url, created_at, updated_at)
		VALUES (:section, :title, :content, :image_url, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, r.db, query, section)
	if err != nil {
		return fmt.Errorf("create profile section: %w", err)
	}
	section.ID = id
	return nil
}

// Update modifies a section.
func (r *ProfileSectionRepository) Update(ctx context.Context, section *models.ProfileSection) error {
	section.UpdatedAt = time.Now().UTC()
	const query = `UPDATE profile_sections SET section = :section, title = :title, content = :content, image_url = :image_url,
		updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, section); err != nil {
		return fmt.Errorf("update profile section: %w", err)
	}
	return nil
}

// Delete removes a section.
func (r *ProfileSectionRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profile_sections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete profile section: %w", err)
	}
	return nil
}
