package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lpk-cms-api/internal/dto"
	"github.com/noah-isme/lpk-cms-api/internal/models"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
)

type fakeBackupSrv struct {
	restored    *dto.BackupDocument
	requestedBy string
	token       string
	openErr     error
}

func (f *fakeBackupSrv) Export(context.Context) (*dto.BackupDocument, error) {
	return &dto.BackupDocument{
		Version:   dto.BackupVersion,
		Timestamp: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		Data:      &dto.BackupData{Programs: []models.Program{{ID: 1, Title: "Caregiver"}}},
	}, nil
}

func (f *fakeBackupSrv) Restore(_ context.Context, doc *dto.BackupDocument) (*dto.RestoreResponse, error) {
	f.restored = doc
	if doc.Data == nil {
		return nil, appErrors.ErrInvalidBackup
	}
	return &dto.RestoreResponse{Success: true, Message: "restored 1 tables", Results: []dto.RestoreTableResult{{Table: "programs", Count: 1}}}, nil
}

func (f *fakeBackupSrv) RequestSnapshot(_ context.Context, requestedBy string) (*dto.Snapshot, error) {
	f.requestedBy = requestedBy
	return &dto.Snapshot{ID: "snap-1", Status: dto.SnapshotStatusQueued}, nil
}

func (f *fakeBackupSrv) Snapshot(_ context.Context, id string) (*dto.Snapshot, error) {
	if id != "snap-1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "snapshot not found")
	}
	return &dto.Snapshot{ID: id, Status: dto.SnapshotStatusDone}, nil
}

func (f *fakeBackupSrv) OpenSnapshot(_ context.Context, token string) (io.ReadCloser, string, error) {
	f.token = token
	if f.openErr != nil {
		return nil, "", f.openErr
	}
	return io.NopCloser(strings.NewReader(`{"version":"1.0"}`)), "backups/backup-20240501T080000Z-abcd1234.json", nil
}

func backupRouter(srv *fakeBackupSrv, claims *models.JWTClaims) *gin.Engine {
	h := NewBackupHandler(srv)
	return testRouter(claims, func(r *gin.Engine) {
		r.GET("/backup", h.Export)
		r.POST("/backup", h.Restore)
		r.POST("/backup/snapshots", h.CreateSnapshot)
		r.GET("/backup/snapshots/download", h.DownloadSnapshot)
		r.GET("/backup/snapshots/:id", h.GetSnapshot)
	})
}

func TestBackupHandlerExportIsAttachment(t *testing.T) {
	rec := perform(backupRouter(&fakeBackupSrv{}, nil), http.MethodGet, "/backup", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "lpk-backup-2024-05-01.json")
	assert.Contains(t, rec.Body.String(), `"version":"1.0"`)
	assert.Contains(t, rec.Body.String(), `"programs":[{"id":1`)
}

func TestBackupHandlerRestore(t *testing.T) {
	srv := &fakeBackupSrv{}
	router := backupRouter(srv, nil)

	rec := perform(router, http.MethodPost, "/backup", `{"version":"1.0","data":{"programs":[]}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.restored)
	assert.NotNil(t, srv.restored.Data)

	rec = perform(router, http.MethodPost, "/backup", `{"version":"1.0"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_BACKUP", errorCode(t, rec))

	rec = perform(router, http.MethodPost, "/backup", `not json`)
	assert.Equal(t, "INVALID_BACKUP", errorCode(t, rec))
}

func TestBackupHandlerSnapshotLifecycle(t *testing.T) {
	srv := &fakeBackupSrv{}
	router := backupRouter(srv, &models.JWTClaims{UserID: 1, Username: "admin"})

	rec := perform(router, http.MethodPost, "/backup/snapshots", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "admin", srv.requestedBy)

	rec = perform(router, http.MethodGet, "/backup/snapshots/snap-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = perform(router, http.MethodGet, "/backup/snapshots/other", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBackupHandlerDownload(t *testing.T) {
	srv := &fakeBackupSrv{}
	router := backupRouter(srv, nil)

	rec := perform(router, http.MethodGet, "/backup/snapshots/download", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = perform(router, http.MethodGet, "/backup/snapshots/download?token=abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", srv.token)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="backup-20240501T080000Z-abcd1234.json"`)
	assert.Equal(t, `{"version":"1.0"}`, rec.Body.String())

	srv.openErr = appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	rec = perform(router, http.MethodGet, "/backup/snapshots/download?token=bad", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
