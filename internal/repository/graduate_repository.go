package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lpk-cms-api/internal/models"
)

const graduateColumns = `id, name, photo_url, company, position, year, testimonial, country, created_at, updated_at`

// GraduateRepository handles persistence for graduates.
type GraduateRepository struct {
	db *sqlx.DB
}

// NewGraduateRepository creates a new repository instance.
func NewGraduateRepository(db *sqlx.DB) *GraduateRepository {
	return &GraduateRepository{db: db}
}

// List returns graduates matching filters.
func (r *GraduateRepository) List(ctx context.Context, filter models.GraduateFilter) ([]models.Graduate, int, error) {
	var where whereClause
	where.search(filter.Search, "name", "company", "position", "testimonial")
	if filter.Year != nil {
		where.add("year = ?", *filter.Year)
	}
	if filter.Country != "" {
		where.add("LOWER(country) = LOWER(?)", filter.Country)
	}

	sortBy := "created_at"
	if filter.SortBy == "year" {
		sortBy = "year"
	}
	order := sortDirection(filter.SortOrder, "DESC")
	page := filter.ListParams.Normalize()

	query := fmt.Sprintf("SELECT %s FROM graduates%s ORDER BY %s %s, id %s LIMIT %d OFFSET %d", graduateColumns, where.String(), sortBy, order, order, page.Limit, page.Offset)
	graduates := make([]models.Graduate, 0)
	if err := r.db.SelectContext(ctx, &graduates, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list graduates: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM graduates"+where.String(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count graduates: %w", err)
	}
	return graduates, total, nil
}

// FindByID returns a graduate by id.
func (r *GraduateRepository) FindByID(ctx context.Context, id int64) (*models.Graduate, error) {
	var graduate models.Graduate
	if err := r.db.GetContext(ctx, &graduate, "SELECT "+graduateColumns+" FROM graduates WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &graduate, nil
}

// Create persists a graduate.
func (r *GraduateRepository) Create(ctx context.Context, graduate *models.Graduate) error {
	now := time.Now().UTC()
	graduate.CreatedAt = now
	graduate.UpdatedAt = now

	const query = `INSERT INTO graduates (name, photo_url, company, position, year, testimonial, country, created_at, updated_at)
		VALUES (:name, :photo_url, :company, :position, :year, :testimonial, :country, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, r.db, query, graduate)
	if err != nil {
		return fmt.Errorf("create graduate: %w", err)
	}
	graduate.ID = id
	return nil
}

// Update modifies a graduate.
func (r *GraduateRepository) Update(ctx context.Context, graduate *models.Graduate) error {
	graduate.UpdatedAt = time.Now().UTC()
	const query = `UPDATE graduates SET name = :name, photo_url = :photo_url, company = :company, position = :position, year = :year,
		testimonial = :testimonial, country = :country, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, graduate); err != nil {
		return fmt.Errorf("update graduate: %w", err)
	}
	return nil
}

// Delete removes a graduate.
func (r *GraduateRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM graduates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete graduate: %w", err)
	}
	return nil
}
