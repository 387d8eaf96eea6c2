package service

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	"github.com/noah-isme/lpk-cms-api/internal/repository"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
)

const siteSettingsCacheKey = "site-settings:list"

var errSettingMissing = appErrors.New("SETTING_NOT_FOUND", http.StatusNotFound, "setting not found")

type siteSettingRepository interface {
	List(ctx context.Context) ([]models.SiteSetting, error)
	FindByID(ctx context.Context, id int64) (*models.SiteSetting, error)
	FindByKey(ctx context.Context, key string) (*models.SiteSetting, error)
	ExistsByKey(ctx context.Context, key string, excludeID int64) (bool, error)
	Create(ctx context.Context, setting *models.SiteSetting) error
	Update(ctx context.Context, setting *models.SiteSetting) error
	Delete(ctx context.Context, id int64) error
}

// SettingRef addresses a setting either by id or by key. ID wins when both are set.
type SettingRef struct {
	ID  *int64
	Key string
}

// CreateSiteSettingRequest captures a new key/value pair.
type CreateSiteSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// UpdateSiteSettingRequest renames a key or changes its value.
type UpdateSiteSettingRequest struct {
	Key   *string `json:"key"`
	Value *string `json:"value"`
}

// SiteSettingService handles key/value site configuration. The full list is cached.
type SiteSettingService struct {
	repo   siteSettingRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewSiteSettingService creates a new site setting service.
func NewSiteSettingService(repo siteSettingRepository, cache *CacheService, logger *zap.Logger) *SiteSettingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiteSettingService{repo: repo, cache: cache, logger: logger}
}

// List returns every setting ordered by key.
func (s *SiteSettingService) List(ctx context.Context) ([]models.SiteSetting, error) {
	settings, err := cached(ctx, s.cache, siteSettingsCacheKey, func() ([]models.SiteSetting, error) {
		return s.repo.List(ctx)
	})
	if err != nil {
		return nil, internalError(err, "failed to list site settings")
	}
	return settings, nil
}

// Get resolves a setting by id or key.
func (s *SiteSettingService) Get(ctx context.Context, ref SettingRef) (*models.SiteSetting, error) {
	var (
		setting *models.SiteSetting
		err     error
	)
	switch {
	case ref.ID != nil:
		setting, err = s.repo.FindByID(ctx, *ref.ID)
	case trim(ref.Key) != "":
		setting, err = s.repo.FindByKey(ctx, trim(ref.Key))
	default:
		return nil, appErrors.Validation("MISSING_IDENTIFIER", "either id or key is required")
	}
	if err != nil {
		return nil, loadError(err, errSettingMissing, "setting")
	}
	return setting, nil
}

// Create stores a new setting with a unique key.
func (s *SiteSettingService) Create(ctx context.Context, req CreateSiteSettingRequest) (*models.SiteSetting, error) {
	if err := requireFields(
		requiredField{"MISSING_KEY", "key", req.Key},
		requiredField{"MISSING_VALUE", "value", req.Value},
	); err != nil {
		return nil, err
	}
	setting := &models.SiteSetting{Key: trim(req.Key), Value: trim(req.Value)}
	if err := s.ensureKeyFree(ctx, setting.Key, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, setting); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.ErrDuplicateKey
		}
		return nil, internalError(err, "failed to create setting")
	}
	s.invalidate(ctx)
	return setting, nil
}

// Update changes the key and/or value of the referenced setting.
func (s *SiteSettingService) Update(ctx context.Context, ref SettingRef, req UpdateSiteSettingRequest) (*models.SiteSetting, error) {
	if req.Key == nil && req.Value == nil {
		return nil, appErrors.Validation("NO_UPDATE_FIELDS", "at least one of key or value must be provided")
	}
	setting, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	previousKey := setting.Key
	if err := patchString(&setting.Key, req.Key, "INVALID_KEY", "key"); err != nil {
		return nil, err
	}
	if err := patchString(&setting.Value, req.Value, "INVALID_VALUE", "value"); err != nil {
		return nil, err
	}
	if setting.Key != previousKey {
		if err := s.ensureKeyFree(ctx, setting.Key, setting.ID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, setting); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.ErrDuplicateKey
		}
		return nil, internalError(err, "failed to update setting")
	}
	s.invalidate(ctx)
	return setting, nil
}

// Delete removes the referenced setting and returns it.
func (s *SiteSettingService) Delete(ctx context.Context, ref SettingRef) (*models.SiteSetting, error) {
	setting, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, setting.ID); err != nil {
		return nil, internalError(err, "failed to delete setting")
	}
	s.invalidate(ctx)
	return setting, nil
}

func (s *SiteSettingService) ensureKeyFree(ctx context.Context, key string, excludeID int64) error {
	exists, err := s.repo.ExistsByKey(ctx, key, excludeID)
	if err != nil {
		return internalError(err, "failed to check setting key")
	}
	if exists {
		return appErrors.ErrDuplicateKey
	}
	return nil
}

func (s *SiteSettingService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, siteSettingsCacheKey); err != nil {
		s.logger.Warn("site setting cache invalidation failed", zap.Error(err))
	}
}
