package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lpk-cms-api/internal/dto"
	"github.com/noah-isme/lpk-cms-api/internal/models"
)

// restoreChunkSize keeps batched inserts well under PostgreSQL's bind parameter limit.
const restoreChunkSize = 500

const (
	insertProgramsSQL = `INSERT INTO programs (id, title, description, duration, requirements, benefits, image_url, is_active, created_at, updated_at)
		VALUES (:id, :title, :description, :duration, :requirements, :benefits, :image_url, :is_active, :created_at, :updated_at)`
	insertNewsSQL = `INSERT INTO news (id, title, slug, content, excerpt, image_url, category, published_at, created_at, updated_at)
		VALUES (:id, :title, :slug, :content, :excerpt, :image_url, :category, :published_at, :created_at, :updated_at)`
	insertGraduatesSQL = `INSERT INTO graduates (id, name, photo_url, company, position, year, testimonial, country, created_at, updated_at)
		VALUES (:id, :name, :photo_url, :company, :position, :year, :testimonial, :country, :created_at, :updated_at)`
	insertGallerySQL = `INSERT INTO gallery (id, title, image_url, description, category, created_at, updated_at)
		VALUES (:id, :title, :image_url, :description, :category, :created_at, :updated_at)`
	insertSlidersSQL = `INSERT INTO sliders (id, title, subtitle, image_url, button_text, button_link, description, image2_url, "order", is_active, created_at, updated_at)
		VALUES (:id, :title, :subtitle, :image_url, :button_text, :button_link, :description, :image2_url, :order, :is_active, :created_at, :updated_at)`
	insertRegistrationsSQL = `INSERT INTO registrations (id, registration_number, full_name, email, phone, date_of_birth, education, address, program_id, status, notes, created_at, updated_at)
		VALUES (:id, :registration_number, :full_name, :email, :phone, :date_of_birth, :education, :address, :program_id, :status, :notes, :created_at, :updated_at)`
	insertContactMessagesSQL = `INSERT INTO contact_messages (id, name, email, phone, subject, message, status, created_at)
		VALUES (:id, :name, :email, :phone, :subject, :message, :status, :created_at)`
	insertOrganizationMembersSQL = `INSERT INTO organization_members (id, name, position, photo_url, parent_id, "order", level, created_at, updated_at)
		VALUES (:id, :name, :position, :photo_url, NULL, :order, :level, :created_at, :updated_at)`
	insertProfileSectionsSQL = `INSERT INTO profile_sections (id, section, title, content, image_url, created_at, updated_at)
		VALUES (:id, :section, :title, :content, :image_url, :created_at, :updated_at)`
	insertSiteSettingsSQL = `INSERT INTO site_settings (id, key, value, created_at, updated_at)
		VALUES (:id, :key, :value, :created_at, :updated_at)`
)

// BackupRepository reads and replaces every content table for backup and restore.
type BackupRepository struct {
	db *sqlx.DB
}

// NewBackupRepository creates a new repository instance.
func NewBackupRepository(db *sqlx.DB) *BackupRepository {
	return &BackupRepository{db: db}
}

// Export loads every content table in full.
func (r *BackupRepository) Export(ctx context.Context) (*dto.BackupData, error) {
	data := &dto.BackupData{
		Programs:            make([]models.Program, 0),
		News:                make([]models.News, 0),
		Graduates:           make([]models.Graduate, 0),
		Gallery:             make([]models.GalleryItem, 0),
		Sliders:             make([]models.Slider, 0),
		Registrations:       make([]models.Registration, 0),
		ContactMessages:     make([]models.ContactMessage, 0),
		OrganizationMembers: make([]models.OrganizationMember, 0),
		ProfileSections:     make([]models.ProfileSection, 0),
		SiteSettings:        make([]models.SiteSetting, 0),
	}

	tables := []struct {
		table   string
		columns string
		dest    interface{}
	}{
		{"programs", programColumns, &data.Programs},
		{"news", newsColumns, &data.News},
		{"graduates", graduateColumns, &data.Graduates},
		{"gallery", galleryColumns, &data.Gallery},
		{"sliders", sliderColumns, &data.Sliders},
		{"registrations", registrationColumns, &data.Registrations},
		{"contact_messages", contactMessageColumns, &data.ContactMessages},
		{"organization_members", organizationMemberColumns, &data.OrganizationMembers},
		{"profile_sections", profileSectionColumns, &data.ProfileSections},
		{"site_settings", siteSettingColumns, &data.SiteSettings},
	}
	for _, t := range tables {
		query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id ASC", t.columns, t.table)
		if err := r.db.SelectContext(ctx, t.dest, query); err != nil {
			return nil, fmt.Errorf("export %s: %w", t.table, err)
		}
	}
	return data, nil
}

// Restore replaces every non-empty table in data inside one transaction.
// Dependent tables are cleared before the tables they reference and inserted after them.
func (r *BackupRepository) Restore(ctx context.Context, data *dto.BackupData) (results []dto.RestoreTableResult, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin restore: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	deleteOrder := []struct {
		table string
		rows  int
	}{
		{"registrations", len(data.Registrations)},
		{"organization_members", len(data.OrganizationMembers)},
		{"programs", len(data.Programs)},
		{"news", len(data.News)},
		{"graduates", len(data.Graduates)},
		{"gallery", len(data.Gallery)},
		{"sliders", len(data.Sliders)},
		{"contact_messages", len(data.ContactMessages)},
		{"profile_sections", len(data.ProfileSections)},
		{"site_settings", len(data.SiteSettings)},
	}
	for _, t := range deleteOrder {
		if t.rows == 0 {
			continue
		}
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+t.table); err != nil {
			return nil, fmt.Errorf("clear %s: %w", t.table, err)
		}
	}

	inserts := []struct {
		name   string
		table  string
		rows   int
		insert func() error
	}{
		{"programs", "programs", len(data.Programs), func() error { return insertChunks(ctx, tx, insertProgramsSQL, data.Programs) }},
		{"news", "news", len(data.News), func() error { return insertChunks(ctx, tx, insertNewsSQL, data.News) }},
		{"graduates", "graduates", len(data.Graduates), func() error { return insertChunks(ctx, tx, insertGraduatesSQL, data.Graduates) }},
		{"gallery", "gallery", len(data.Gallery), func() error { return insertChunks(ctx, tx, insertGallerySQL, data.Gallery) }},
		{"sliders", "sliders", len(data.Sliders), func() error { return insertChunks(ctx, tx, insertSlidersSQL, data.Sliders) }},
		{"registrations", "registrations", len(data.Registrations), func() error {
			return insertChunks(ctx, tx, insertRegistrationsSQL, data.Registrations)
		}},
		{"contactMessages", "contact_messages", len(data.ContactMessages), func() error {
			return insertChunks(ctx, tx, insertContactMessagesSQL, data.ContactMessages)
		}},
		{"organizationMembers", "organization_members", len(data.OrganizationMembers), func() error {
			return restoreOrganizationMembers(ctx, tx, data.OrganizationMembers)
		}},
		{"profileSections", "profile_sections", len(data.ProfileSections), func() error {
			return insertChunks(ctx, tx, insertProfileSectionsSQL, data.ProfileSections)
		}},
		{"siteSettings", "site_settings", len(data.SiteSettings), func() error {
			return insertChunks(ctx, tx, insertSiteSettingsSQL, data.SiteSettings)
		}},
	}

	results = make([]dto.RestoreTableResult, 0, len(inserts))
	for _, t := range inserts {
		if t.rows == 0 {
			continue
		}
		if err = t.insert(); err != nil {
			return nil, fmt.Errorf("restore %s: %w", t.table, err)
		}
		if err = resetSequence(ctx, tx, t.table); err != nil {
			return nil, err
		}
		results = append(results, dto.RestoreTableResult{Table: t.name, Count: t.rows})
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit restore: %w", err)
	}
	return results, nil
}

// restoreOrganizationMembers inserts members without parents first so row order in the backup does not matter.
func restoreOrganizationMembers(ctx context.Context, tx *sqlx.Tx, members []models.OrganizationMember) error {
	if err := insertChunks(ctx, tx, insertOrganizationMembersSQL, members); err != nil {
		return err
	}
	for _, member := range members {
		if member.ParentID == nil {
			continue
		}
		if _, err := tx.ExecContext(ctx, `UPDATE organization_members SET parent_id = $1 WHERE id = $2`, *member.ParentID, member.ID); err != nil {
			return fmt.Errorf("link member %d to parent %d: %w", member.ID, *member.ParentID, err)
		}
	}
	return nil
}

func insertChunks[T any](ctx context.Context, tx *sqlx.Tx, query string, rows []T) error {
	for start := 0; start < len(rows); start += restoreChunkSize {
		end := start + restoreChunkSize
		if end > len(rows) {
			end = len(rows)
		}
		if _, err := tx.NamedExecContext(ctx, query, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// resetSequence moves the serial sequence past the highest restored id.
func resetSequence(ctx context.Context, tx *sqlx.Tx, table string) error {
	query := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)`, table)
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("reset %s sequence: %w", table, err)
	}
	return nil
}
