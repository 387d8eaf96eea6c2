package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/lpk-cms-api/internal/dto"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/storage"
)

var defaultUploadTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp", "image/gif"}

var uploadExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadConfig bounds accepted files.
type UploadConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
	// KeyPrefix is prepended to stored object names, e.g. "uploads/" on a shared bucket.
	KeyPrefix string
}

// UploadFile is a file received from a multipart form.
type UploadFile struct {
	Filename    string
	Size        int64
	ContentType string
	Body        io.Reader
}

// UploadService validates images and writes them to object storage.
type UploadService struct {
	store   storage.ObjectStore
	metrics *MetricsService
	logger  *zap.Logger
	cfg     UploadConfig
	now     func() time.Time
}

// NewUploadService constructs the upload service.
func NewUploadService(store storage.ObjectStore, metrics *MetricsService, logger *zap.Logger, cfg UploadConfig) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSizeBytes <= 0 {
		cfg.MaxFileSizeBytes = 5 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = defaultUploadTypes
	}
	return &UploadService{store: store, metrics: metrics, logger: logger, cfg: cfg, now: time.Now}
}

// Upload checks the declared and sniffed type and the size, then stores the image.
func (s *UploadService) Upload(ctx context.Context, file *UploadFile) (*dto.UploadResponse, error) {
	if file == nil || file.Body == nil {
		return nil, appErrors.ErrMissingFile
	}
	declared := strings.ToLower(strings.TrimSpace(file.ContentType))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if !s.allowed(declared) {
		return nil, appErrors.Clone(appErrors.ErrInvalidFileType, "only JPEG, PNG, WebP and GIF images are allowed")
	}
	if file.Size > s.cfg.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrFileTooLarge, fmt.Sprintf("file exceeds %d bytes", s.cfg.MaxFileSizeBytes))
	}

	// Read one byte past the limit so oversized bodies with a lying Size are caught.
	content, err := io.ReadAll(io.LimitReader(file.Body, s.cfg.MaxFileSizeBytes+1))
	if err != nil {
		return nil, internalError(err, "failed to read upload")
	}
	if int64(len(content)) > s.cfg.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrFileTooLarge, fmt.Sprintf("file exceeds %d bytes", s.cfg.MaxFileSizeBytes))
	}
	if len(content) == 0 {
		return nil, appErrors.ErrMissingFile
	}
	if sniffed := http.DetectContentType(content); !strings.HasPrefix(sniffed, "image/") {
		return nil, appErrors.Clone(appErrors.ErrInvalidFileType, "file content is not an image")
	}

	name := s.fileName(file.Filename, declared)
	url, err := s.store.Put(ctx, s.cfg.KeyPrefix+name, bytes.NewReader(content), declared)
	if err != nil {
		return nil, internalError(err, "failed to store upload")
	}
	s.metrics.UploadAccepted(int64(len(content)))
	s.logger.Info("image uploaded", zap.String("filename", name), zap.Int("bytes", len(content)))

	return &dto.UploadResponse{
		Success:  true,
		URL:      url,
		Filename: name,
		Size:     int64(len(content)),
		Type:     declared,
	}, nil
}

func (s *UploadService) allowed(contentType string) bool {
	for _, t := range s.cfg.AllowedMIMEs {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

// fileName builds <unix-ms>-<6 random>.<ext>, keeping the original extension when it is recognisable.
func (s *UploadService) fileName(original, contentType string) string {
	ext := strings.ToLower(path.Ext(original))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		ext = uploadExtensions[contentType]
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), random, ext)
}
