package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/lpk-cms-api/internal/dto"
	"github.com/noah-isme/lpk-cms-api/internal/repository"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/jobs"
	"github.com/noah-isme/lpk-cms-api/pkg/storage"
)

type backupRepository interface {
	Export(ctx context.Context) (*dto.BackupData, error)
	Restore(ctx context.Context, data *dto.BackupData) ([]dto.RestoreTableResult, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job[string]) error
}

type urlSigner interface {
	Generate(id, key string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (id, key string, expiresAt time.Time, err error)
}

// BackupService exports and restores every content table and manages asynchronous snapshots.
type BackupService struct {
	repo    backupRepository
	cache   *CacheService
	store   storage.ObjectStore
	signer  urlSigner
	queue   jobDispatcher
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.RWMutex
	snapshots map[string]*dto.Snapshot
}

// NewBackupService constructs the backup service. store, signer and queue are only needed for snapshots.
func NewBackupService(repo backupRepository, cache *CacheService, store storage.ObjectStore, signer urlSigner, metrics *MetricsService, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{
		repo:      repo,
		cache:     cache,
		store:     store,
		signer:    signer,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		snapshots: make(map[string]*dto.Snapshot),
	}
}

// AttachQueue sets the dispatcher used for snapshot jobs. The queue's handler is ProcessSnapshot.
func (s *BackupService) AttachQueue(queue jobDispatcher) {
	s.queue = queue
}

// Export returns the full backup document.
func (s *BackupService) Export(ctx context.Context) (*dto.BackupDocument, error) {
	start := time.Now()
	data, err := s.repo.Export(ctx)
	s.metrics.ObserveDBQuery("backup_export", time.Since(start))
	if err != nil {
		return nil, internalError(err, "failed to export backup")
	}
	return &dto.BackupDocument{Version: dto.BackupVersion, Timestamp: s.now().UTC(), Data: data}, nil
}

// Restore replaces each non-empty table in doc. Either every table is replaced or none is.
func (s *BackupService) Restore(ctx context.Context, doc *dto.BackupDocument) (*dto.RestoreResponse, error) {
	if doc == nil || doc.Data == nil {
		return nil, appErrors.ErrInvalidBackup
	}
	start := time.Now()
	results, err := s.repo.Restore(ctx, doc.Data)
	s.metrics.ObserveDBQuery("backup_restore", time.Since(start))
	if err != nil {
		if repository.IsForeignKeyViolation(err) || repository.IsUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidBackup.Code, appErrors.ErrInvalidBackup.Status, "backup rows violate a constraint; nothing was restored")
		}
		return nil, internalError(err, "failed to restore backup")
	}
	if err := s.cache.Invalidate(ctx, "*"); err != nil {
		s.logger.Warn("cache flush after restore failed", zap.Error(err))
	}
	s.logger.Info("backup restored", zap.Int("tables", len(results)))
	return &dto.RestoreResponse{
		Success: true,
		Message: fmt.Sprintf("restored %d tables", len(results)),
		Results: results,
	}, nil
}

// RequestSnapshot queues a snapshot of the current data.
func (s *BackupService) RequestSnapshot(ctx context.Context, requestedBy string) (*dto.Snapshot, error) {
	if s.queue == nil || s.store == nil {
		return nil, internalError(fmt.Errorf("snapshot queue not configured"), "snapshots are unavailable")
	}
	now := s.now().UTC()
	snapshot := &dto.Snapshot{
		ID:          uuid.NewString(),
		Status:      dto.SnapshotStatusQueued,
		RequestedBy: requestedBy,
		CreatedAt:   now,
	}
	snapshot.Key = fmt.Sprintf("backup-%s-%s.json", now.Format("20060102T150405Z"), snapshot.ID[:8])

	s.mu.Lock()
	s.snapshots[snapshot.ID] = snapshot
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job[string]{ID: snapshot.ID, Payload: snapshot.Key}); err != nil {
		s.finish(snapshot.ID, dto.SnapshotStatusFailed, "", err)
		return nil, internalError(err, "failed to enqueue snapshot")
	}
	return s.copySnapshot(snapshot.ID), nil
}

// Snapshot returns the status of a snapshot, with a fresh signed download link once it is done.
func (s *BackupService) Snapshot(ctx context.Context, id string) (*dto.Snapshot, error) {
	snapshot := s.copySnapshot(id)
	if snapshot == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "snapshot not found")
	}
	if snapshot.Status == dto.SnapshotStatusDone && s.signer != nil {
		token, expiresAt, err := s.signer.Generate(snapshot.ID, snapshot.Key)
		if err != nil {
			return nil, internalError(err, "failed to sign snapshot link")
		}
		snapshot.DownloadURL = "/backup/snapshots/download?token=" + token
		snapshot.ExpiresAt = &expiresAt
	}
	return snapshot, nil
}

// OpenSnapshot validates a signed token and opens the stored document.
func (s *BackupService) OpenSnapshot(ctx context.Context, token string) (io.ReadCloser, string, error) {
	if s.signer == nil || s.store == nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "snapshot not found")
	}
	id, key, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	snapshot := s.copySnapshot(id)
	if snapshot != nil && snapshot.Key != key {
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	body, err := s.store.Open(ctx, key)
	if err != nil {
		if err == storage.ErrObjectNotFound {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "snapshot file not found")
		}
		return nil, "", internalError(err, "failed to open snapshot")
	}
	return body, key, nil
}

// ProcessSnapshot is the queue handler that writes a snapshot document to the key carried by job.
func (s *BackupService) ProcessSnapshot(ctx context.Context, job jobs.Job[string]) error {
	s.mu.Lock()
	snapshot, ok := s.snapshots[job.ID]
	if ok {
		snapshot.Status = dto.SnapshotStatusRunning
	}
	s.mu.Unlock()
	if !ok {
		s.logger.Warn("snapshot job for unknown id", zap.String("job_id", job.ID))
		return nil
	}

	doc, err := s.Export(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	location, err := s.store.Put(ctx, job.Payload, bytes.NewReader(payload), "application/json")
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	s.finish(job.ID, dto.SnapshotStatusDone, location, nil)
	s.logger.Info("backup snapshot stored", zap.String("snapshot_id", job.ID), zap.Int("bytes", len(payload)))
	return nil
}

// SnapshotFailed marks a snapshot whose job exhausted its retries.
func (s *BackupService) SnapshotFailed(job jobs.Job[string], err error) {
	s.finish(job.ID, dto.SnapshotStatusFailed, "", err)
}

func (s *BackupService) finish(id string, status dto.SnapshotStatus, location string, cause error) {
	now := s.now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.snapshots[id]
	if !ok {
		return
	}
	snapshot.Status = status
	snapshot.Location = location
	snapshot.FinishedAt = &now
	if cause != nil {
		snapshot.Error = cause.Error()
	}
	s.metrics.SnapshotFinished(string(status))
}

func (s *BackupService) copySnapshot(id string) *dto.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[id]
	if !ok {
		return nil
	}
	cp := *snapshot
	return &cp
}
