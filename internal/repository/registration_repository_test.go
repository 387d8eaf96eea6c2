package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lpk-cms-api/internal/models"
)

func TestRegistrationRepositoryLatestNumberEmpty(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery(`SELECT registration_number FROM registrations WHERE registration_number LIKE \$1\s+ORDER BY LENGTH\(registration_number\) DESC`).
		WithArgs("REG-2024-%").
		WillReturnRows(sqlmock.NewRows([]string{"registration_number"}))

	number, err := repo.LatestNumber(context.Background(), "REG-2024-")
	require.NoError(t, err)
	assert.Equal(t, "", number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryLatestNumber(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery(`SELECT registration_number FROM registrations`).
		WithArgs("REG-2024-%").
		WillReturnRows(sqlmock.NewRows([]string{"registration_number"}).AddRow("REG-2024-1000"))

	number, err := repo.LatestNumber(context.Background(), "REG-2024-")
	require.NoError(t, err)
	assert.Equal(t, "REG-2024-1000", number)
}

func TestRegistrationRepositoryListFiltersByStatusAndProgram(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)
	programID := int64(3)

	rows := sqlmock.NewRows([]string{"id", "registration_number", "full_name", "email", "phone", "date_of_birth", "education", "address", "program_id", "status", "notes", "created_at", "updated_at"}).
		AddRow(int64(1), "REG-2024-001", "Siti", "siti@example.com", "0812", "2000-01-01", "SMA", "Jakarta", programID, "pending", nil, fixedTime, fixedTime)
	mock.ExpectQuery(`SELECT .* FROM registrations WHERE status = \$1 AND program_id = \$2 ORDER BY created_at DESC, id DESC LIMIT 10 OFFSET 0`).
		WithArgs("pending", programID).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM registrations WHERE status = \$1 AND program_id = \$2`).
		WithArgs("pending", programID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.RegistrationFilter{Status: models.RegistrationStatusPending, ProgramID: &programID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "REG-2024-001", list[0].RegistrationNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery(`INSERT INTO registrations`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	reg := &models.Registration{RegistrationNumber: "REG-2024-001", FullName: "Siti", ProgramID: 1, Status: models.RegistrationStatusPending}
	require.NoError(t, repo.Create(context.Background(), reg))
	assert.Equal(t, int64(42), reg.ID)
	assert.False(t, reg.CreatedAt.IsZero())
}
