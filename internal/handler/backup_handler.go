package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lpk-cms-api/internal/dto"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

type backupService interface {
	Export(ctx context.Context) (*dto.BackupDocument, error)
	Restore(ctx context.Context, doc *dto.BackupDocument) (*dto.RestoreResponse, error)
	RequestSnapshot(ctx context.Context, requestedBy string) (*dto.Snapshot, error)
	Snapshot(ctx context.Context, id string) (*dto.Snapshot, error)
	OpenSnapshot(ctx context.Context, token string) (io.ReadCloser, string, error)
}

// BackupHandler exports and restores the content tables.
type BackupHandler struct {
	service backupService
}

// NewBackupHandler constructs a backup handler.
func NewBackupHandler(svc backupService) *BackupHandler {
	return &BackupHandler{service: svc}
}

// Export godoc
// @Summary Export backup
// @Description Returns every content table as one JSON document.
// @Tags Backup
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.BackupDocument
// @Router /backup [get]
func (h *BackupHandler) Export(c *gin.Context) {
	doc, err := h.service.Export(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("lpk-backup-%s.json", doc.Timestamp.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, doc)
}

// Restore godoc
// @Summary Restore backup
// @Description Replaces table contents from a backup document in one transaction. Tables missing from the document are left untouched.
// @Tags Backup
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.BackupDocument true "Backup document"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /backup [post]
func (h *BackupHandler) Restore(c *gin.Context) {
	var doc dto.BackupDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidBackup.Code, http.StatusBadRequest, "invalid backup document"))
		return
	}
	result, err := h.service.Restore(c.Request.Context(), &doc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CreateSnapshot godoc
// @Summary Request a backup snapshot
// @Description Queues a job that writes the backup document to object storage.
// @Tags Backup
// @Produce json
// @Security BearerAuth
// @Success 202 {object} response.Envelope
// @Router /backup/snapshots [post]
func (h *BackupHandler) CreateSnapshot(c *gin.Context) {
	requestedBy := ""
	if claims := claimsFromContext(c); claims != nil {
		requestedBy = claims.Username
		if requestedBy == "" {
			requestedBy = strconv.FormatInt(claims.UserID, 10)
		}
	}
	snapshot, err := h.service.RequestSnapshot(c.Request.Context(), requestedBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, snapshot, nil)
}

// GetSnapshot godoc
// @Summary Snapshot status
// @Tags Backup
// @Produce json
// @Security BearerAuth
// @Param id path string true "Snapshot ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /backup/snapshots/{id} [get]
func (h *BackupHandler) GetSnapshot(c *gin.Context) {
	snapshot, err := h.service.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// DownloadSnapshot godoc
// @Summary Download a finished snapshot
// @Tags Backup
// @Produce application/json
// @Security BearerAuth
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /backup/snapshots/download [get]
func (h *BackupHandler) DownloadSnapshot(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "download token is required"))
		return
	}
	body, key, err := h.service.OpenSnapshot(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer body.Close()

	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil && !errors.Is(err, context.Canceled) {
		_ = c.Error(err)
	}
}
