package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lpk-cms-api/internal/dto"
)

// DashboardRepository aggregates table counts for the admin dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository creates a new repository instance.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Stats counts rows in every content table.
func (r *DashboardRepository) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM programs) AS programs,
		(SELECT COUNT(*) FROM programs WHERE is_active) AS active_programs,
		(SELECT COUNT(*) FROM news) AS news,
		(SELECT COUNT(*) FROM graduates) AS graduates,
		(SELECT COUNT(*) FROM gallery) AS gallery,
		(SELECT COUNT(*) FROM sliders) AS sliders,
		(SELECT COUNT(*) FROM organization_members) AS organization_members,
		(SELECT COUNT(*) FROM registrations) AS registrations,
		(SELECT COUNT(*) FROM contact_messages) AS contact_messages,
		(SELECT COUNT(*) FROM contact_messages WHERE status = 'new') AS new_contact_messages`

	var row struct {
		Programs            int `db:"programs"`
		ActivePrograms      int `db:"active_programs"`
		News                int `db:"news"`
		Graduates           int `db:"graduates"`
		Gallery             int `db:"gallery"`
		Sliders             int `db:"sliders"`
		OrganizationMembers int `db:"organization_members"`
		Registrations       int `db:"registrations"`
		ContactMessages     int `db:"contact_messages"`
		NewContactMessages  int `db:"new_contact_messages"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}

	var byStatus []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &byStatus, `SELECT status, COUNT(*) AS count FROM registrations GROUP BY status`); err != nil {
		return nil, fmt.Errorf("registrations by status: %w", err)
	}

	stats := &dto.DashboardStats{
		Programs:             row.Programs,
		ActivePrograms:       row.ActivePrograms,
		News:                 row.News,
		Graduates:            row.Graduates,
		Gallery:              row.Gallery,
		Sliders:              row.Sliders,
		OrganizationMembers:  row.OrganizationMembers,
		Registrations:        row.Registrations,
		RegistrationsByState: make(map[string]int, len(byStatus)),
		ContactMessages:      row.ContactMessages,
		NewContactMessages:   row.NewContactMessages,
	}
	for _, s := range byStatus {
		stats.RegistrationsByState[s.Status] = s.Count
	}
	return stats, nil
}
