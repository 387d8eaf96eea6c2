package dto

import (
	"time"

	"github.com/noah-isme/lpk-cms-api/internal/models"
)

// BackupVersion tags documents produced by this service.
const BackupVersion = "1.0"

// BackupDocument is the full JSON snapshot of every content table.
type BackupDocument struct {
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      *BackupData `json:"data"`
}

// BackupData holds one slice per content table. Absent or empty slices are skipped on restore.
type BackupData struct {
	Programs            []models.Program            `json:"programs"`
	News                []models.News               `json:"news"`
	Graduates           []models.Graduate           `json:"graduates"`
	Gallery             []models.GalleryItem        `json:"gallery"`
	Sliders             []models.Slider             `json:"sliders"`
	Registrations       []models.Registration       `json:"registrations"`
	ContactMessages     []models.ContactMessage     `json:"contactMessages"`
	OrganizationMembers []models.OrganizationMember `json:"organizationMembers"`
	ProfileSections     []models.ProfileSection     `json:"profileSections"`
	SiteSettings        []models.SiteSetting        `json:"siteSettings"`
}

// RestoreTableResult reports how many rows were written to one table.
type RestoreTableResult struct {
	Table string `json:"table"`
	Count int    `json:"count"`
}

// RestoreResponse is returned after a successful restore.
type RestoreResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Results []RestoreTableResult `json:"results"`
}

// SnapshotStatus tracks an asynchronous backup snapshot.
type SnapshotStatus string

const (
	SnapshotStatusQueued  SnapshotStatus = "queued"
	SnapshotStatusRunning SnapshotStatus = "running"
	SnapshotStatusDone    SnapshotStatus = "done"
	SnapshotStatusFailed  SnapshotStatus = "failed"
)

// Snapshot describes a backup snapshot job. Finished snapshots are fetched only through DownloadURL.
type Snapshot struct {
	ID          string         `json:"id"`
	Status      SnapshotStatus `json:"status"`
	Key         string         `json:"key,omitempty"`
	Location    string         `json:"-"`
	DownloadURL string         `json:"downloadUrl,omitempty"`
	ExpiresAt   *time.Time     `json:"expiresAt,omitempty"`
	Error       string         `json:"error,omitempty"`
	RequestedBy string         `json:"requestedBy,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	FinishedAt  *time.Time     `json:"finishedAt,omitempty"`
}
