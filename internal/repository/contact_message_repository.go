package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lpk-cms-api/internal/models"
)

const contactMessageColumns = `id, name, email, phone, subject, message, status, created_at`

// ContactMessageRepository handles persistence for contact form submissions.
type ContactMessageRepository struct {
	db *sqlx.DB
}

// NewContactMessageRepository creates a new repository instance.
func NewContactMessageRepository(db *sqlx.DB) *ContactMessageRepository {
	return &ContactMessageRepository{db: db}
}

// List returns messages matching filters.
func (r *ContactMessageRepository) List(ctx context.Context, filter models.ContactMessageFilter) ([]models.ContactMessage, int, error) {
	var where whereClause
	where.search(filter.Search, "name", "email", "subject", "message")
	if filter.Status != "" {
		where.add("status = ?", filter.Status)
	}
	order := sortDirection(filter.SortOrder, "DESC")
	page := filter.ListParams.Normalize()

	query := fmt.Sprintf("SELECT %s FROM contact_messages%s ORDER BY created_at %s LIMIT %d OFFSET %d", contactMessageColumns, where.String(), order, page.Limit, page.Offset)
	messages := make([]models.ContactMessage, 0)
	if err := r.db.SelectContext(ctx, &messages, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list contact messages: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM contact_messages"+where.String(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count contact messages: %w", err)
	}
	return messages, total, nil
}

// FindByID returns a message by id.
func (r *ContactMessageRepository) FindByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	var message models.ContactMessage
	if err := r.db.GetContext(ctx, &message, "SELECT "+contactMessageColumns+" FROM contact_messages WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &message, nil
}

// Create persists a message.
func (r *ContactMessageRepository) Create(ctx context.Context, message *models.ContactMessage) error {
	message.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO contact_messages (name, email, phone, subject, message, status, created_at)
		VALUES (:name, :email, :phone, :subject, :message, :status, :created_at) RETURNING id`
	id, err := insertReturningID(ctx, r.db, query, message)
	if err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}
	message.ID = id
	return nil
}

// Update modifies a message.
func (r *ContactMessageRepository) Update(ctx context.Context, message *models.ContactMessage) error {
	const query = `UPDATE contact_messages SET name = :name, email = :email, phone = :phone, subject = :subject, message = :message,
		status = :status WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, message); err != nil {
		return fmt.Errorf("update contact message: %w", err)
	}
	return nil
}

// Delete removes a message.
func (r *ContactMessageRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}
	return nil
}
