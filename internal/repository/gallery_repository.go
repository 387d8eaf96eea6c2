package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lpk-cms-api/internal/models"
)

const galleryColumns = `id, title, image_url, description, category, created_at, updated_at`

// GalleryRepository handles persistence for gallery items.
type GalleryRepository struct {
	db *sqlx.DB
}

// NewGalleryRepository creates a new repository instance.
func NewGalleryRepository(db *sqlx.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

// List returns gallery items newest first.
func (r *GalleryRepository) List(ctx context.Context, filter models.GalleryFilter) ([]models.GalleryItem, int, error) {
	var where whereClause
	where.search(filter.Search, "title", "description")
	if filter.Category != "" {
		where.add("category = ?", filter.Category)
	}
	page := filter.ListParams.Normalize()

	query := fmt.Sprintf("SELECT %s FROM gallery%s ORDER BY created_at DESC LIMIT %d OFFSET %d", galleryColumns, where.String(), page.Limit, page.Offset)
	items := make([]models.GalleryItem, 0)
	if err := r.db.SelectContext(ctx, &items, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list gallery: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM gallery"+where.String(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count gallery: %w", err)
	}
	return items, total, nil
}

// FindByID returns a gallery item by id.
func (r *GalleryRepository) FindByID(ctx context.Context, id int64) (*models.GalleryItem, error) {
	var item models.GalleryItem
	if err := r.db.GetContext(ctx, &item, "SELECT "+galleryColumns+" FROM gallery WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create persists a gallery item.
func (r *GalleryRepository) Create(ctx context.Context, item *models.GalleryItem) error {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	const query = `INSERT INTO gallery (title, image_url, description, category, created_at, updated_at)
		VALUES (:title, :image_url, :description, :category, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, r.db, query, item)
	if err != nil {
		return fmt.Errorf("create gallery item: %w", err)
	}
	item.ID = id
	return nil
}

// Update modifies a gallery item.
func (r *GalleryRepository) Update(ctx context.Context, item *models.GalleryItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE gallery SET title = :title, image_url = :image_url, description = :description, category = :category,
		updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update gallery item: %w", err)
	}
	return nil
}

// Delete removes a gallery item.
func (r *GalleryRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM gallery WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete gallery item: %w", err)
	}
	return nil
}
