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

const newsColumns = `id, title, slug, content, excerpt, image_url, category, published_at, created_at, updated_at`

// NewsRepository handles persistence for news items.
type NewsRepository struct {
	db *sqlx.DB
}

// NewNewsRepository creates a new repository instance.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// List returns news ordered by publish date, newest first.
func (r *NewsRepository) List(ctx context.Context, filter models.NewsFilter) ([]models.News, int, error) {
	var where whereClause
	where.search(filter.Search, "title", "content", "excerpt")
	if filter.Category != "" {
		where.add("category = ?", filter.Category)
	}
	if filter.Published {
		where.addRaw("published_at IS NOT NULL AND published_at <= NOW()")
	}
	page := filter.ListParams.Normalize()

	query := fmt.Sprintf("SELECT %s FROM news%s ORDER BY published_at DESC NULLS LAST, created_at DESC LIMIT %d OFFSET %d", newsColumns, where.String(), page.Limit, page.Offset)
	items := make([]models.News, 0)
	if err := r.db.SelectContext(ctx, &items, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list news: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM news"+where.String(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count news: %w", err)
	}
	return items, total, nil
}

// FindByID returns a news item by id.
func (r *NewsRepository) FindByID(ctx context.Context, id int64) (*models.News, error) {
	var item models.News
	if err := r.db.GetContext(ctx, &item, "SELECT "+newsColumns+" FROM news WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindBySlug returns a news item by slug.
func (r *NewsRepository) FindBySlug(ctx context.Context, slug string) (*models.News, error) {
	var item models.News
	if err := r.db.GetContext(ctx, &item, "SELECT "+newsColumns+" FROM news WHERE slug = $1", slug); err != nil {
		return nil, err
	}
	return &item, nil
}

// ExistsBySlug checks slug uniqueness, ignoring excludeID when non-zero.
func (r *NewsRepository) ExistsBySlug(ctx context.Context, slug string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM news WHERE slug = $1"
	args := []interface{}{slug}
	if excludeID != 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check news slug: %w", err)
	}
	return true, nil
}

// Create persists a news item.
func (r *NewsRepository) Create(ctx context.Context, item *models.News) error {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	const query = `INSERT INTO news (title, slug, content, excerpt, image_url, category, published_at, created_at, updated_at)
		VALUES (:title, :slug, :content, :excerpt, :image_url, :category, :published_at, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, r.db, query, item)
	if err != nil {
		return fmt.Errorf("create news: %w", err)
	}
	item.ID = id
	return nil
}

// Update modifies a news item.
func (r *NewsRepository) Update(ctx context.Context, item *models.News) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE news SET title = :title, slug = :slug, content = :content, excerpt = :excerpt, image_url = :image_url,
		category = :category, published_at = :published_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	return nil
}

// Delete removes a news item.
func (r *NewsRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	return nil
}
