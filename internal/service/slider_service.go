package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

type sliderRepository interface {
	List(ctx context.Context, filter models.SliderFilter) ([]models.Slider, int, error)
	FindByID(ctx context.Context, id int64) (*models.Slider, error)
	Create(ctx context.Context, slider *models.Slider) error
	Update(ctx context.Context, slider *models.Slider) error
	Delete(ctx context.Context, id int64) error
}

// CreateSliderRequest captures fields for a hero banner.
type CreateSliderRequest struct {
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle"`
	ImageURL    string  `json:"imageUrl"`
	ButtonText  *string `json:"buttonText"`
	ButtonLink  *string `json:"buttonLink"`
	Description *string `json:"description"`
	Image2URL   *string `json:"image2Url"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"isActive"`
}

// UpdateSliderRequest modifies only the fields that are present.
type UpdateSliderRequest struct {
	Title       *string `json:"title"`
	Subtitle    *string `json:"subtitle"`
	ImageURL    *string `json:"imageUrl"`
	ButtonText  *string `json:"buttonText"`
	ButtonLink  *string `json:"buttonLink"`
	Description *string `json:"description"`
	Image2URL   *string `json:"image2Url"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"isActive"`
}

// SliderService handles slider workflows.
type SliderService struct {
	repo   sliderRepository
	logger *zap.Logger
}

// NewSliderService creates a new slider service.
func NewSliderService(repo sliderRepository, logger *zap.Logger) *SliderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SliderService{repo: repo, logger: logger}
}

// List returns sliders in display order.
func (s *SliderService) List(ctx context.Context, filter models.SliderFilter) ([]models.Slider, *response.Pagination, error) {
	sliders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list sliders")
	}
	return sliders, pageOf(filter.ListParams, total), nil
}

// Get returns a slider by id.
func (s *SliderService) Get(ctx context.Context, id int64) (*models.Slider, error) {
	slider, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, appErrors.Clone(appErrors.ErrNotFound, "slider not found"), "slider")
	}
	return slider, nil
}

// Create adds a slider. Order defaults to 0 and sliders start active.
func (s *SliderService) Create(ctx context.Context, req CreateSliderRequest) (*models.Slider, error) {
	if err := requireFields(
		requiredField{"INVALID_TITLE", "title", req.Title},
		requiredField{"INVALID_SUBTITLE", "subtitle", req.Subtitle},
		requiredField{"INVALID_IMAGE_URL", "imageUrl", req.ImageURL},
	); err != nil {
		return nil, err
	}
	slider := &models.Slider{
		Title:       trim(req.Title),
		Subtitle:    trim(req.Subtitle),
		ImageURL:    trim(req.ImageURL),
		ButtonText:  optionalString(req.ButtonText),
		ButtonLink:  optionalString(req.ButtonLink),
		Description: optionalString(req.Description),
		Image2URL:   optionalString(req.Image2URL),
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if req.Order != nil {
		slider.Order = *req.Order
	}
	if err := s.repo.Create(ctx, slider); err != nil {
		return nil, internalError(err, "failed to create slider")
	}
	return slider, nil
}

// Update applies the provided fields to a slider.
func (s *SliderService) Update(ctx context.Context, id int64, req UpdateSliderRequest) (*models.Slider, error) {
	slider, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := patchString(&slider.Title, req.Title, "INVALID_TITLE", "title"); err != nil {
		return nil, err
	}
	if err := patchString(&slider.Subtitle, req.Subtitle, "INVALID_SUBTITLE", "subtitle"); err != nil {
		return nil, err
	}
	if err := patchString(&slider.ImageURL, req.ImageURL, "INVALID_IMAGE_URL", "imageUrl"); err != nil {
		return nil, err
	}
	patchOptional(&slider.ButtonText, req.ButtonText)
	patchOptional(&slider.ButtonLink, req.ButtonLink)
	patchOptional(&slider.Description, req.Description)
	patchOptional(&slider.Image2URL, req.Image2URL)
	if req.Order != nil {
		slider.Order = *req.Order
	}
	if req.IsActive != nil {
		slider.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, slider); err != nil {
		return nil, internalError(err, "failed to update slider")
	}
	return slider, nil
}

// Delete removes a slider and returns it.
func (s *SliderService) Delete(ctx context.Context, id int64) (*models.Slider, error) {
	slider, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, internalError(err, "failed to delete slider")
	}
	return slider, nil
}
