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

const siteSettingColumns = `id, key, value, created_at, updated_at`

// SiteSettingRepository handles persistence for key/value site settings.
type SiteSettingRepository struct {
	db *sqlx.DB
}

// NewSiteSettingRepository creates a new repository instance.
func NewSiteSettingRepository(db *sqlx.DB) *SiteSettingRepository {
	return &SiteSettingRepository{db: db}
}

// List returns every setting ordered by key.
func (r *SiteSettingRepository) List(ctx context.Context) ([]models.SiteSetting, error) {
	settings := make([]models.SiteSetting, 0)
	if err := r.db.SelectContext(ctx, &settings, "SELECT "+siteSettingColumns+" FROM site_settings ORDER BY key ASC"); err != nil {
		return nil, fmt.Errorf("list site settings: %w", err)
	}
	return settings, nil
}

// FindByID returns a setting by id.
func (r *SiteSettingRepository) FindByID(ctx context.Context, id int64) (*models.SiteSetting, error) {
	var setting models.SiteSetting
	if err := r.db.GetContext(ctx, &setting, "SELECT "+siteSettingColumns+" FROM site_settings WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &setting, nil
}

// FindByKey returns a setting by key.
func (r *SiteSettingRepository) FindByKey(ctx context.Context, key string) (*models.SiteSetting, error) {
	var setting models.SiteSetting
	if err := r.db.GetContext(ctx, &setting, "SELECT "+siteSettingColumns+" FROM site_settings WHERE key = $1", key); err != nil {
		return nil, err
	}
	return &setting, nil
}

// ExistsByKey checks key uniqueness, ignoring excludeID when non-zero.
func (r *SiteSettingRepository) ExistsByKey(ctx context.Context, key string, excludeID int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, "SELECT 1 FROM site_settings WHERE key = $1 AND id <> $2 LIMIT 1", key, excludeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check site setting key: %w", err)
	}
	return true, nil
}

// Create persists a setting.
func (r *SiteSettingRepository) Create(ctx context.Context, setting *models.SiteSetting) error {
	now := time.Now().UTC()
	setting.CreatedAt = now
	setting.UpdatedAt = now

	const query = `INSERT INTO site_settings (key, value, created_at, updated_at) VALUES (:key, :value, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, r.db, query, setting)
	if err != nil {
		return fmt.Errorf("create site setting: %w", err)
	}
	setting.ID = id
	return nil
}

// Update modifies a setting.
func (r *SiteSettingRepository) Update(ctx context.Context, setting *models.SiteSetting) error {
	setting.UpdatedAt = time.Now().UTC()
	const query = `UPDATE site_settings SET key = :key, value = :value, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, setting); err != nil {
		return fmt.Errorf("update site setting: %w", err)
	}
	return nil
}

// Delete removes a setting.
func (r *SiteSettingRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM site_settings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete site setting: %w", err)
	}
	return nil
}
