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

const programColumns = `id, title, description, duration, requirements, benefits, image_url, is_active, created_at, updated_at`

// ProgramRepository handles persistence for programs.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository creates a new repository instance.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// List returns programs matching filters with the total count.
func (r *ProgramRepository) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, int, error) {
	var where whereClause
	where.search(filter.Search, "title", "description")
	if filter.IsActive != nil {
		where.add("is_active = ?", *filter.IsActive)
	}
	page := filter.ListParams.Normalize()

	query := fmt.Sprintf("SELECT %s FROM programs%s ORDER BY created_at DESC LIMIT %d OFFSET %d", programColumns, where.String(), page.Limit, page.Offset)
	programs := make([]models.Program, 0)
	if err := r.db.SelectContext(ctx, &programs, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list programs: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM programs"+where.String(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count programs: %w", err)
	}
	return programs, total, nil
}

// FindByID returns a program by id.
func (r *ProgramRepository) FindByID(ctx context.Context, id int64) (*models.Program, error) {
	var program models.Program
	if err := r.db.GetContext(ctx, &program, "SELECT "+programColumns+" FROM programs WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &program, nil
}

// Exists reports whether a program with id exists.
func (r *ProgramRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	if err := r.db.GetContext(ctx, &one, "SELECT 1 FROM programs WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check program: %w", err)
	}
	return true, nil
}

// Create persists a new program.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now

	const query = `INSERT INTO programs (title, description, duration, requirements, benefits, image_url, is_active, created_at, updated_at)
		VALUES (:title, :description, :duration, :requirements, :benefits, :image_url, :is_active, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, r.db, query, program)
	if err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	program.ID = id
	return nil
}

// Update modifies a program.
func (r *ProgramRepository) Update(ctx context.Context, program *models.Program) error {
	program.UpdatedAt = time.Now().UTC()
	const query = `UPDATE programs SET title = :title, description = :description, duration = :duration, requirements = :requirements,
		benefits = :benefits, image_url = :image_url, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	return nil
}

// Delete removes a program record.
func (r *ProgramRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM programs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	return nil
}

// CountRegistrations returns the number of registrations referencing the program.
func (r *ProgramRepository) CountRegistrations(ctx context.Context, id int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM registrations WHERE program_id = $1`, id); err != nil {
		return 0, fmt.Errorf("count program registrations: %w", err)
	}
	return count, nil
}

// Titles maps every program id to its title.
func (r *ProgramRepository) Titles(ctx context.Context) (map[int64]string, error) {
	var rows []struct {
		ID    int64  `db:"id"`
		Title string `db:"title"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, title FROM programs`); err != nil {
		return nil, fmt.Errorf("list program titles: %w", err)
	}
	titles := make(map[int64]string, len(rows))
	for _, row := range rows {
		titles[row.ID] = row.Title
	}
	return titles, nil
}
