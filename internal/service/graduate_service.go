package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

const (
	minGraduateYear = 1900
	maxGraduateYear = 2100
)

type graduateRepository interface {
	List(ctx context.Context, filter models.GraduateFilter) ([]models.Graduate, int, error)
	FindByID(ctx context.Context, id int64) (*models.Graduate, error)
	Create(ctx context.Context, graduate *models.Graduate) error
	Update(ctx context.Context, graduate *models.Graduate) error
	Delete(ctx context.Context, id int64) error
}

// CreateGraduateRequest captures fields for an alumni story.
type CreateGraduateRequest struct {
	Name        string  `json:"name"`
	Company     string  `json:"company"`
	Position    string  `json:"position"`
	Year        *int    `json:"year"`
	Testimonial string  `json:"testimonial"`
	Country     string  `json:"country"`
	PhotoURL    *string `json:"photoUrl"`
}

// UpdateGraduateRequest modifies only the fields that are present.
type UpdateGraduateRequest struct {
	Name        *string `json:"name"`
	Company     *string `json:"company"`
	Position    *string `json:"position"`
	Year        *int    `json:"year"`
	Testimonial *string `json:"testimonial"`
	Country     *string `json:"country"`
	PhotoURL    *string `json:"photoUrl"`
}

// GraduateService handles graduate workflows.
type GraduateService struct {
	repo      graduateRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGraduateService creates a new graduate service.
func NewGraduateService(repo graduateRepository, validate *validator.Validate, logger *zap.Logger) *GraduateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraduateService{repo: repo, validator: validate, logger: logger}
}

// List returns graduates, newest year first unless asked otherwise.
func (s *GraduateService) List(ctx context.Context, filter models.GraduateFilter) ([]models.Graduate, *response.Pagination, error) {
	if filter.SortBy == "" {
		filter.SortBy = "year"
	}
	graduates, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list graduates")
	}
	return graduates, pageOf(filter.ListParams, total), nil
}

// Get returns a graduate by id.
func (s *GraduateService) Get(ctx context.Context, id int64) (*models.Graduate, error) {
	graduate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, appErrors.Clone(appErrors.ErrNotFound, "graduate not found"), "graduate")
	}
	return graduate, nil
}

// Create adds a graduate. Country defaults to Japan.
func (s *GraduateService) Create(ctx context.Context, req CreateGraduateRequest) (*models.Graduate, error) {
	if err := requireFields(
		requiredField{"MISSING_NAME", "name", req.Name},
		requiredField{"MISSING_COMPANY", "company", req.Company},
		requiredField{"MISSING_POSITION", "position", req.Position},
		requiredField{"MISSING_TESTIMONIAL", "testimonial", req.Testimonial},
	); err != nil {
		return nil, err
	}
	if req.Year == nil {
		return nil, appErrors.Validation("MISSING_YEAR", "year is required")
	}
	if err := checkGraduateYear(*req.Year); err != nil {
		return nil, err
	}

	country := trim(req.Country)
	if country == "" {
		country = models.DefaultGraduateCountry
	}
	graduate := &models.Graduate{
		Name:        trim(req.Name),
		Company:     trim(req.Company),
		Position:    trim(req.Position),
		Year:        *req.Year,
		Testimonial: trim(req.Testimonial),
		Country:     country,
		PhotoURL:    optionalString(req.PhotoURL),
	}
	if err := s.repo.Create(ctx, graduate); err != nil {
		return nil, internalError(err, "failed to create graduate")
	}
	return graduate, nil
}

// Update applies the provided fields to a graduate.
func (s *GraduateService) Update(ctx context.Context, id int64, req UpdateGraduateRequest) (*models.Graduate, error) {
	graduate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, p := range []struct {
		dst   *string
		value *string
		code  string
		label string
	}{
		{&graduate.Name, req.Name, "INVALID_NAME", "name"},
		{&graduate.Company, req.Company, "INVALID_COMPANY", "company"},
		{&graduate.Position, req.Position, "INVALID_POSITION", "position"},
		{&graduate.Testimonial, req.Testimonial, "INVALID_TESTIMONIAL", "testimonial"},
		{&graduate.Country, req.Country, "INVALID_COUNTRY", "country"},
	} {
		if err := patchString(p.dst, p.value, p.code, p.label); err != nil {
			return nil, err
		}
	}
	if req.Year != nil {
		if err := checkGraduateYear(*req.Year); err != nil {
			return nil, err
		}
		graduate.Year = *req.Year
	}
	patchOptional(&graduate.PhotoURL, req.PhotoURL)

	if err := s.repo.Update(ctx, graduate); err != nil {
		return nil, internalError(err, "failed to update graduate")
	}
	return graduate, nil
}

// Delete removes a graduate and returns it.
func (s *GraduateService) Delete(ctx context.Context, id int64) (*models.Graduate, error) {
	graduate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, internalError(err, "failed to delete graduate")
	}
	return graduate, nil
}

func checkGraduateYear(year int) error {
	if year < minGraduateYear || year > maxGraduateYear {
		return appErrors.Validation("INVALID_YEAR", "year must be between 1900 and 2100")
	}
	return nil
}
