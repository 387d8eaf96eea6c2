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

const registrationColumns = `id, registration_number, full_name, email, phone, date_of_birth, education, address, program_id, status, notes, created_at, updated_at`

// RegistrationRepository handles persistence for program registrations.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository creates a new repository instance.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func (r *RegistrationRepository) filterClause(filter models.RegistrationFilter) whereClause {
	var where whereClause
	where.search(filter.Search, "full_name", "email", "phone", "registration_number")
	if filter.Status != "" {
		where.add("status = ?", filter.Status)
	}
	if filter.ProgramID != nil {
		where.add("program_id = ?", *filter.ProgramID)
	}
	return where
}

// List returns registrations newest first.
func (r *RegistrationRepository) List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, int, error) {
	where := r.filterClause(filter)
	page := filter.ListParams.Normalize()

	query := fmt.Sprintf("SELECT %s FROM registrations%s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d", registrationColumns, where.String(), page.Limit, page.Offset)
	registrations := make([]models.Registration, 0)
	if err := r.db.SelectContext(ctx, &registrations, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM registrations"+where.String(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count registrations: %w", err)
	}
	return registrations, total, nil
}

// ListAll returns every registration matching filter, ignoring pagination. Used by exports.
func (r *RegistrationRepository) ListAll(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error) {
	where := r.filterClause(filter)
	query := fmt.Sprintf("SELECT %s FROM registrations%s ORDER BY registration_number ASC", registrationColumns, where.String())
	registrations := make([]models.Registration, 0)
	if err := r.db.SelectContext(ctx, &registrations, query, where.args...); err != nil {
		return nil, fmt.Errorf("list registrations for export: %w", err)
	}
	return registrations, nil
}

// FindByID returns a registration by id.
func (r *RegistrationRepository) FindByID(ctx context.Context, id int64) (*models.Registration, error) {
	var registration models.Registration
	if err := r.db.GetContext(ctx, &registration, "SELECT "+registrationColumns+" FROM registrations WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &registration, nil
}

// FindByNumber returns a registration by its registration number.
func (r *RegistrationRepository) FindByNumber(ctx context.Context, number string) (*models.Registration, error) {
	var registration models.Registration
	if err := r.db.GetContext(ctx, &registration, "SELECT "+registrationColumns+" FROM registrations WHERE registration_number = $1", number); err != nil {
		return nil, err
	}
	return &registration, nil
}

// LatestNumber returns the highest registration number starting with prefix, or "" when none exist.
// Longer numbers sort first so REG-2024-1000 ranks above REG-2024-999.
func (r *RegistrationRepository) LatestNumber(ctx context.Context, prefix string) (string, error) {
	const query = `SELECT registration_number FROM registrations WHERE registration_number LIKE $1
		ORDER BY LENGTH(registration_number) DESC, registration_number DESC LIMIT 1`
	var number string
	if err := r.db.GetContext(ctx, &number, query, prefix+"%"); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("latest registration number: %w", err)
	}
	return number, nil
}

// Create persists a registration. A duplicate registration number surfaces as a unique violation.
func (r *RegistrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	now := time.Now().UTC()
	registration.CreatedAt = now
	registration.UpdatedAt = now

	const query = `INSERT INTO registrations (registration_number, full_name, email, phone, date_of_birth, education, address, program_id, status, notes, created_at, updated_at)
		VALUES (:registration_number, :full_name, :email, :phone, :date_of_birth, :education, :address, :program_id, :status, :notes, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, r.db, query, registration)
	if err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	registration.ID = id
	return nil
}

// Update modifies a registration. The registration number is never rewritten.
func (r *RegistrationRepository) Update(ctx context.Context, registration *models.Registration) error {
	registration.UpdatedAt = time.Now().UTC()
	const query = `UPDATE registrations SET full_name = :full_name, email = :email, phone = :phone, date_of_birth = :date_of_birth,
		education = :education, address = :address, program_id = :program_id, status = :status, notes = :notes, updated_at = :updated_at
		WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, registration); err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	return nil
}

// Delete removes a registration.
func (r *RegistrationRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}
