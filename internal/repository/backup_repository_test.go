package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lpk-cms-api/internal/dto"
	"github.com/noah-isme/lpk-cms-api/internal/models"
)

func TestBackupRepositoryRestoreOrdersTables(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewBackupRepository(db)

	parent := int64(1)
	data := &dto.BackupData{
		Programs:      []models.Program{{ID: 1, Title: "Kaigo", CreatedAt: fixedTime, UpdatedAt: fixedTime}},
		Registrations: []models.Registration{{ID: 7, RegistrationNumber: "REG-2024-001", ProgramID: 1, Status: "pending", CreatedAt: fixedTime, UpdatedAt: fixedTime}},
		OrganizationMembers: []models.OrganizationMember{
			{ID: 2, Name: "Sato", ParentID: &parent, CreatedAt: fixedTime, UpdatedAt: fixedTime},
			{ID: 1, Name: "Tanaka", CreatedAt: fixedTime, UpdatedAt: fixedTime},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM registrations`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM organization_members`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM programs`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO programs`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SELECT setval\(pg_get_serial_sequence\('programs', 'id'\)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO registrations`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SELECT setval\(pg_get_serial_sequence\('registrations', 'id'\)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO organization_members \(id, name`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE organization_members SET parent_id = \$1 WHERE id = \$2`).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SELECT setval\(pg_get_serial_sequence\('organization_members', 'id'\)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	results, err := repo.Restore(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, []dto.RestoreTableResult{
		{Table: "programs", Count: 1},
		{Table: "registrations", Count: 1},
		{Table: "organizationMembers", Count: 2},
	}, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackupRepositoryRestoreRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewBackupRepository(db)

	data := &dto.BackupData{
		News: []models.News{{ID: 1, Title: "Hello", Slug: "hello", CreatedAt: fixedTime, UpdatedAt: fixedTime}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM news`).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`INSERT INTO news`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.Restore(context.Background(), data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restore news")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func strPtr(v string) *string { return &v }

// fullBackupData has one row in every table with a mix of set and NULL optional columns.
func fullBackupData() *dto.BackupData {
	published := fixedTime
	return &dto.BackupData{
		Programs: []models.Program{{ID: 1, Title: "Kaigo", Description: "Care", Duration: "6 months", Requirements: "SMA",
			Benefits: "Visa", ImageURL: strPtr("/uploads/p.png"), IsActive: true, CreatedAt: fixedTime, UpdatedAt: fixedTime}},
		News: []models.News{{ID: 2, Title: "Open House", Slug: "open-house", Content: "c", Excerpt: "e", Category: "event",
			PublishedAt: &published, CreatedAt: fixedTime, UpdatedAt: fixedTime}},
		Graduates: []models.Graduate{{ID: 3, Name: "Budi", Company: "Toyota", Position: "Operator", Year: 2023,
			Testimonial: "t", Country: "Japan", CreatedAt: fixedTime, UpdatedAt: fixedTime}},
		Gallery: []models.GalleryItem{{ID: 4, Title: "Class", ImageURL: "/g.png", Category: "training",
			CreatedAt: fixedTime, UpdatedAt: fixedTime}},
		Sliders: []models.Slider{{ID: 5, Title: "Hero", Subtitle: "Sub", ImageURL: "/s.png", ButtonText: strPtr("Daftar"),
			Order: 2, IsActive: true, CreatedAt: fixedTime, UpdatedAt: fixedTime}},
		Registrations: []models.Registration{{ID: 7, RegistrationNumber: "REG-2024-001", FullName: "Siti", Email: "siti@example.com",
			Phone: "0812", DateOfBirth: "2001-04-12", Education: "SMA", Address: "Jl. Merdeka", ProgramID: 1,
			Status: models.RegistrationStatusPending, CreatedAt: fixedTime, UpdatedAt: fixedTime}},
		ContactMessages: []models.ContactMessage{{ID: 8, Name: "Ani", Email: "ani@example.com", Subject: "Info", Message: "Halo",
			Status: "new", CreatedAt: fixedTime}},
		OrganizationMembers: []models.OrganizationMember{{ID: 9, Name: "Tanaka", Position: "Director",
			CreatedAt: fixedTime, UpdatedAt: fixedTime}},
		ProfileSections: []models.ProfileSection{{ID: 10, Section: "about", Title: "About", Content: "We train",
			CreatedAt: fixedTime, UpdatedAt: fixedTime}},
		SiteSettings: []models.SiteSetting{{ID: 11, Key: "phone", Value: "021", CreatedAt: fixedTime, UpdatedAt: fixedTime}},
	}
}

func TestBackupRepositoryExportReadsEveryTable(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewBackupRepository(db)
	ft := fixedTime

	mock.ExpectQuery(`SELECT id, title, description, duration, requirements, benefits, image_url, is_active, created_at, updated_at FROM programs ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "duration", "requirements", "benefits", "image_url", "is_active", "created_at", "updated_at"}).
			AddRow(1, "Kaigo", "Care", "6 months", "SMA", "Visa", "/uploads/p.png", true, ft, ft))
	mock.ExpectQuery(`FROM news ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "content", "excerpt", "image_url", "category", "published_at", "created_at", "updated_at"}).
			AddRow(2, "Open House", "open-house", "c", "e", nil, "event", ft, ft, ft))
	mock.ExpectQuery(`FROM graduates ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "photo_url", "company", "position", "year", "testimonial", "country", "created_at", "updated_at"}).
			AddRow(3, "Budi", nil, "Toyota", "Operator", 2023, "t", "Japan", ft, ft))
	mock.ExpectQuery(`FROM gallery ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "image_url", "description", "category", "created_at", "updated_at"}).
			AddRow(4, "Class", "/g.png", nil, "training", ft, ft))
	mock.ExpectQuery(`FROM sliders ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "subtitle", "image_url", "button_text", "button_link", "description", "image2_url", "order", "is_active", "created_at", "updated_at"}).
			AddRow(5, "Hero", "Sub", "/s.png", "Daftar", nil, nil, nil, 2, true, ft, ft))
	mock.ExpectQuery(`FROM registrations ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "registration_number", "full_name", "email", "phone", "date_of_birth", "education", "address", "program_id", "status", "notes", "created_at", "updated_at"}).
			AddRow(7, "REG-2024-001", "Siti", "siti@example.com", "0812", "2001-04-12", "SMA", "Jl. Merdeka", 1, "pending", nil, ft, ft))
	mock.ExpectQuery(`FROM contact_messages ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "subject", "message", "status", "created_at"}).
			AddRow(8, "Ani", "ani@example.com", nil, "Info", "Halo", "new", ft))
	mock.ExpectQuery(`FROM organization_members ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "position", "photo_url", "parent_id", "order", "level", "created_at", "updated_at"}).
			AddRow(9, "Tanaka", "Director", nil, nil, 0, 0, ft, ft))
	mock.ExpectQuery(`FROM profile_sections ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "section", "title", "content", "image_url", "created_at", "updated_at"}).
			AddRow(10, "about", "About", "We train", nil, ft, ft))
	mock.ExpectQuery(`FROM site_settings ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value", "created_at", "updated_at"}).
			AddRow(11, "phone", "021", ft, ft))

	data, err := repo.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fullBackupData(), data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackupRepositoryExportEmptyTablesAreNotNil(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewBackupRepository(db)

	for _, table := range []string{"programs", "news", "graduates", "gallery", "sliders", "registrations",
		"contact_messages", "organization_members", "profile_sections", "site_settings"} {
		mock.ExpectQuery(`FROM ` + table + ` ORDER BY id ASC`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	}

	data, err := repo.Export(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, data.News)
	assert.NotNil(t, data.SiteSettings)
	assert.Empty(t, data.ContactMessages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackupRepositoryRestoreBindsEveryTable(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewBackupRepository(db)
	ft := fixedTime

	mock.ExpectBegin()
	for _, table := range []string{"registrations", "organization_members", "programs", "news", "graduates", "gallery",
		"sliders", "contact_messages", "profile_sections", "site_settings"} {
		mock.ExpectExec(`DELETE FROM ` + table + `$`).WillReturnResult(sqlmock.NewResult(0, 1))
	}

	expectInsert := func(table string, args ...driver.Value) {
		mock.ExpectExec(`INSERT INTO ` + table + ` \(`).WithArgs(args...).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`SELECT setval\(pg_get_serial_sequence\('` + table + `', 'id'\)`).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	expectInsert("programs", 1, "Kaigo", "Care", "6 months", "SMA", "Visa", "/uploads/p.png", true, ft, ft)
	expectInsert("news", 2, "Open House", "open-house", "c", "e", nil, "event", ft, ft, ft)
	expectInsert("graduates", 3, "Budi", nil, "Toyota", "Operator", 2023, "t", "Japan", ft, ft)
	expectInsert("gallery", 4, "Class", "/g.png", nil, "training", ft, ft)
	expectInsert("sliders", 5, "Hero", "Sub", "/s.png", "Daftar", nil, nil, nil, 2, true, ft, ft)
	expectInsert("registrations", 7, "REG-2024-001", "Siti", "siti@example.com", "0812", "2001-04-12", "SMA", "Jl. Merdeka", 1, "pending", nil, ft, ft)
	expectInsert("contact_messages", 8, "Ani", "ani@example.com", nil, "Info", "Halo", "new", ft)
	expectInsert("organization_members", 9, "Tanaka", "Director", nil, 0, 0, ft, ft)
	expectInsert("profile_sections", 10, "about", "About", "We train", nil, ft, ft)
	expectInsert("site_settings", 11, "phone", "021", ft, ft)
	mock.ExpectCommit()

	results, err := repo.Restore(context.Background(), fullBackupData())
	require.NoError(t, err)
	assert.Equal(t, []dto.RestoreTableResult{
		{Table: "programs", Count: 1},
		{Table: "news", Count: 1},
		{Table: "graduates", Count: 1},
		{Table: "gallery", Count: 1},
		{Table: "sliders", Count: 1},
		{Table: "registrations", Count: 1},
		{Table: "contactMessages", Count: 1},
		{Table: "organizationMembers", Count: 1},
		{Table: "profileSections", Count: 1},
		{Table: "siteSettings", Count: 1},
	}, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}
