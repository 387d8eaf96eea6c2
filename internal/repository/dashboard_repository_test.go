package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardRepositoryStats(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewDashboardRepository(db)

	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM programs\) AS programs`).
		WillReturnRows(sqlmock.NewRows([]string{"programs", "active_programs", "news", "graduates", "gallery", "sliders", "organization_members", "registrations", "contact_messages", "new_contact_messages"}).
			AddRow(4, 3, 10, 25, 40, 3, 8, 12, 6, 2))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count FROM registrations GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("pending", 9).AddRow("accepted", 3))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Programs)
	assert.Equal(t, 2, stats.NewContactMessages)
	assert.Equal(t, map[string]int{"pending": 9, "accepted": 3}, stats.RegistrationsByState)
	assert.NoError(t, mock.ExpectationsWereMet())
}
