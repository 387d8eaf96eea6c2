package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

type galleryRepository interface {
	List(ctx context.Context, filter models.GalleryFilter) ([]models.GalleryItem, int, error)
	FindByID(ctx context.Context, id int64) (*models.GalleryItem, error)
	Create(ctx context.Context, item *models.GalleryItem) error
	Update(ctx context.Context, item *models.GalleryItem) error
	Delete(ctx context.Context, id int64) error
}

// CreateGalleryItemRequest captures fields for a gallery photo.
type CreateGalleryItemRequest struct {
	Title       string  `json:"title"`
	ImageURL    string  `json:"imageUrl"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
}

// UpdateGalleryItemRequest modifies only the fields that are present.
type UpdateGalleryItemRequest struct {
	Title       *string `json:"title"`
	ImageURL    *string `json:"imageUrl"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

// GalleryService handles gallery workflows.
type GalleryService struct {
	repo   galleryRepository
	logger *zap.Logger
}

// NewGalleryService creates a new gallery service.
func NewGalleryService(repo galleryRepository, logger *zap.Logger) *GalleryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GalleryService{repo: repo, logger: logger}
}

// List returns paginated gallery items.
func (s *GalleryService) List(ctx context.Context, filter models.GalleryFilter) ([]models.GalleryItem, *response.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list gallery")
	}
	return items, pageOf(filter.ListParams, total), nil
}

// Get returns a gallery item by id.
func (s *GalleryService) Get(ctx context.Context, id int64) (*models.GalleryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, appErrors.Clone(appErrors.ErrNotFound, "gallery item not found"), "gallery item")
	}
	return item, nil
}

// Create adds a gallery item.
func (s *GalleryService) Create(ctx context.Context, req CreateGalleryItemRequest) (*models.GalleryItem, error) {
	if err := requireFields(
		requiredField{"MISSING_TITLE", "title", req.Title},
		requiredField{"MISSING_IMAGE_URL", "imageUrl", req.ImageURL},
		requiredField{"MISSING_CATEGORY", "category", req.Category},
	); err != nil {
		return nil, err
	}
	item := &models.GalleryItem{
		Title:       trim(req.Title),
		ImageURL:    trim(req.ImageURL),
		Category:    trim(req.Category),
		Description: optionalString(req.Description),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, internalError(err, "failed to create gallery item")
	}
	return item, nil
}

// Update applies the provided fields to a gallery item.
func (s *GalleryService) Update(ctx context.Context, id int64, req UpdateGalleryItemRequest) (*models.GalleryItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := patchString(&item.Title, req.Title, "INVALID_TITLE", "title"); err != nil {
		return nil, err
	}
	if err := patchString(&item.ImageURL, req.ImageURL, "INVALID_IMAGE_URL", "imageUrl"); err != nil {
		return nil, err
	}
	if err := patchString(&item.Category, req.Category, "INVALID_CATEGORY", "category"); err != nil {
		return nil, err
	}
	patchOptional(&item.Description, req.Description)

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, internalError(err, "failed to update gallery item")
	}
	return item, nil
}

// Delete removes a gallery item and returns it.
func (s *GalleryService) Delete(ctx context.Context, id int64) (*models.GalleryItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, internalError(err, "failed to delete gallery item")
	}
	return item, nil
}
