package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lpk-cms-api/internal/models"
)

const sliderColumns = `id, title, subtitle, image_url, button_text, button_link, description, image2_url, "order", is_active, created_at, updated_at`

// SliderRepository handles persistence for home page sliders.
type SliderRepository struct {
	db *sqlx.DB
}

// NewSliderRepository creates a new repository instance.
func NewSliderRepository(db *sqlx.DB) *SliderRepository {
	return &SliderRepository{db: db}
}

// List returns sliders in display order.
func (r *SliderRepository) List(ctx context.Context, filter models.SliderFilter) ([]models.Slider, int, error) {
	var where whereClause
	where.search(filter.Search, "title", "subtitle", "description")
	if filter.IsActive != nil {
		where.add("is_active = ?", *filter.IsActive)
	}
	page := filter.ListParams.Normalize()

	query := fmt.Sprintf(`SELECT %s FROM sliders%s ORDER BY "order" ASC, created_at ASC LIMIT %d OFFSET %d`, sliderColumns, where.String(), page.Limit, page.Offset)
	sliders := make([]models.Slider, 0)
	if err := r.db.SelectContext(ctx, &sliders, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list sliders: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM sliders"+where.String(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count sliders: %w", err)
	}
	return sliders, total, nil
}

// FindByID returns a slider by id.
func (r *SliderRepository) FindByID(ctx context.Context, id int64) (*models.Slider, error) {
	var slider models.Slider
	if err := r.db.GetContext(ctx, &slider, "SELECT "+sliderColumns+" FROM sliders WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &slider, nil
}

// Create persists a slider.
func (r *SliderRepository) Create(ctx context.Context, slider *models.Slider) error {
	now := time.Now().UTC()
	slider.CreatedAt = now
	slider.UpdatedAt = now

	const query = `INSERT INTO sliders (title, subtitle, image_url, button_text, button_link, description, image2_url, "order", is_active, created_at, updated_at)
		VALUES (:title, :subtitle, :image_url, :button_text, :button_link, :description, :image2_url, :order, :is_active, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, r.db, query, slider)
	if err != nil {
		return fmt.Errorf("create slider: %w", err)
	}
	slider.ID = id
	return nil
}

// Update modifies a slider.
func (r *SliderRepository) Update(ctx context.Context, slider *models.Slider) error {
	slider.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sliders SET title = :title, subtitle = :subtitle, image_url = :image_url, button_text = :button_text,
		button_link = :button_link, description = :description, image2_url = :image2_url, "order" = :order, is_active = :is_active,
		updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, slider); err != nil {
		return fmt.Errorf("update slider: %w", err)
	}
	return nil
}

// Delete removes a slider.
func (r *SliderRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sliders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete slider: %w", err)
	}
	return nil
}
