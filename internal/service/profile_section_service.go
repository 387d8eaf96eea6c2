package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	"github.com/noah-isme/lpk-cms-api/internal/repository"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
)

const profileSectionsCacheKey = "profile-sections:list"

type profileSectionRepository interface {
	List(ctx context.Context) ([]models.ProfileSection, error)
	FindByID(ctx context.Context, id int64) (*models.ProfileSection, error)
	FindBySection(ctx context.Context, key string) (*models.ProfileSection, error)
	ExistsBySection(ctx context.Context, key string, excludeID int64) (bool, error)
	Create(ctx context.Context, section *models.ProfileSection) error
	Update(ctx context.Context, section *models.ProfileSection) error
	Delete(ctx context.Context, id int64) error
}

// CreateProfileSectionRequest captures fields for a profile page block.
type CreateProfileSectionRequest struct {
	Section  string  `json:"section"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"imageUrl"`
}

// UpdateProfileSectionRequest modifies only the fields that are present.
type UpdateProfileSectionRequest struct {
	Section  *string `json:"section"`
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"imageUrl"`
}

// ProfileSectionService handles profile page content. The full list is cached.
type ProfileSectionService struct {
	repo   profileSectionRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewProfileSectionService creates a new profile section service.
func NewProfileSectionService(repo profileSectionRepository, cache *CacheService, logger *zap.Logger) *ProfileSectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileSectionService{repo: repo, cache: cache, logger: logger}
}

// List returns every section.
func (s *ProfileSectionService) List(ctx context.Context) ([]models.ProfileSection, error) {
	sections, err := cached(ctx, s.cache, profileSectionsCacheKey, func() ([]models.ProfileSection, error) {
		return s.repo.List(ctx)
	})
	if err != nil {
		return nil, internalError(err, "failed to list profile sections")
	}
	return sections, nil
}

// Get returns a section by id.
func (s *ProfileSectionService) Get(ctx context.Context, id int64) (*models.ProfileSection, error) {
	section, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, appErrors.Clone(appErrors.ErrNotFound, "profile section not found"), "profile section")
	}
	return section, nil
}

// GetBySection returns a section by its key, e.g. "vision".
func (s *ProfileSectionService) GetBySection(ctx context.Context, key string) (*models.ProfileSection, error) {
	section, err := s.repo.FindBySection(ctx, trim(key))
	if err != nil {
		return nil, loadError(err, appErrors.Clone(appErrors.ErrNotFound, "profile section not found"), "profile section")
	}
	return section, nil
}

// Create adds a section with a unique key.
func (s *ProfileSectionService) Create(ctx context.Context, req CreateProfileSectionRequest) (*models.ProfileSection, error) {
	if err := requireFields(
		requiredField{"MISSING_SECTION", "section", req.Section},
		requiredField{"MISSING_TITLE", "title", req.Title},
		requiredField{"MISSING_CONTENT", "content", req.Content},
	); err != nil {
		return nil, err
	}
	section := &models.ProfileSection{
		Section:  trim(req.Section),
		Title:    trim(req.Title),
		Content:  trim(req.Content),
		ImageURL: optionalString(req.ImageURL),
	}
	if err := s.ensureSectionFree(ctx, section.Section, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, section); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.ErrDuplicateSection
		}
		return nil, internalError(err, "failed to create profile section")
	}
	s.invalidate(ctx)
	return section, nil
}

// Update applies the provided fields to a section.
func (s *ProfileSectionService) Update(ctx context.Context, id int64, req UpdateProfileSectionRequest) (*models.ProfileSection, error) {
	section, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previousKey := section.Section
	if err := patchString(&section.Section, req.Section, "INVALID_SECTION", "section"); err != nil {
		return nil, err
	}
	if err := patchString(&section.Title, req.Title, "INVALID_TITLE", "title"); err != nil {
		return nil, err
	}
	if err := patchString(&section.Content, req.Content, "INVALID_CONTENT", "content"); err != nil {
		return nil, err
	}
	patchOptional(&section.ImageURL, req.ImageURL)

	if section.Section != previousKey {
		if err := s.ensureSectionFree(ctx, section.Section, id); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, section); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.ErrDuplicateSection
		}
		return nil, internalError(err, "failed to update profile section")
	}
	s.invalidate(ctx)
	return section, nil
}

// Delete removes a section and returns it.
func (s *ProfileSectionService) Delete(ctx context.Context, id int64) (*models.ProfileSection, error) {
	section, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, internalError(err, "failed to delete profile section")
	}
	s.invalidate(ctx)
	return section, nil
}

func (s *ProfileSectionService) ensureSectionFree(ctx context.Context, key string, excludeID int64) error {
	exists, err := s.repo.ExistsBySection(ctx, key, excludeID)
	if err != nil {
		return internalError(err, "failed to check profile section")
	}
	if exists {
		return appErrors.ErrDuplicateSection
	}
	return nil
}

func (s *ProfileSectionService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, profileSectionsCacheKey); err != nil {
		s.logger.Warn("profile section cache invalidation failed", zap.Error(err))
	}
}
