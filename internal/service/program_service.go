package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

var (
	errProgramMissing   = appErrors.New("PROGRAM_NOT_FOUND", http.StatusNotFound, "program not found")
	errProgramInUse     = appErrors.New("HAS_REGISTRATIONS", http.StatusBadRequest, "program still has registrations")
	programCachePattern = "programs:*"
)

type programRepository interface {
	List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, int, error)
	FindByID(ctx context.Context, id int64) (*models.Program, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id int64) error
	CountRegistrations(ctx context.Context, id int64) (int, error)
}

// CreateProgramRequest captures fields for creating programs.
type CreateProgramRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Duration     string  `json:"duration"`
	Requirements string  `json:"requirements"`
	Benefits     string  `json:"benefits"`
	ImageURL     *string `json:"imageUrl"`
	IsActive     *bool   `json:"isActive"`
}

// UpdateProgramRequest modifies only the fields that are present.
type UpdateProgramRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Duration     *string `json:"duration"`
	Requirements *string `json:"requirements"`
	Benefits     *string `json:"benefits"`
	ImageURL     *string `json:"imageUrl"`
	IsActive     *bool   `json:"isActive"`
}

type programPage struct {
	Items []models.Program `json:"items"`
	Total int              `json:"total"`
}

// ProgramService handles program workflows. Public list reads are cached.
type ProgramService struct {
	repo      programRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgramService creates a new program service.
func NewProgramService(repo programRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns paginated programs.
func (s *ProgramService) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, *response.Pagination, error) {
	active := "any"
	if filter.IsActive != nil {
		active = fmt.Sprintf("%t", *filter.IsActive)
	}
	page := filter.ListParams.Normalize()
	key := fmt.Sprintf("programs:list:%s:%s:%d:%d", filter.Search, active, page.Limit, page.Offset)

	result, err := cached(ctx, s.cache, key, func() (programPage, error) {
		items, total, err := s.repo.List(ctx, filter)
		return programPage{Items: items, Total: total}, err
	})
	if err != nil {
		return nil, nil, internalError(err, "failed to list programs")
	}
	return result.Items, pageOf(filter.ListParams, result.Total), nil
}

// Get returns a program by id.
func (s *ProgramService) Get(ctx context.Context, id int64) (*models.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, errProgramMissing, "program")
	}
	return program, nil
}

// Create adds a program. Programs are active unless isActive is false.
func (s *ProgramService) Create(ctx context.Context, req CreateProgramRequest) (*models.Program, error) {
	if err := requireFields(
		requiredField{"INVALID_TITLE", "title", req.Title},
		requiredField{"INVALID_DESCRIPTION", "description", req.Description},
		requiredField{"INVALID_DURATION", "duration", req.Duration},
		requiredField{"INVALID_REQUIREMENTS", "requirements", req.Requirements},
		requiredField{"INVALID_BENEFITS", "benefits", req.Benefits},
	); err != nil {
		return nil, err
	}

	program := &models.Program{
		Title:        trim(req.Title),
		Description:  trim(req.Description),
		Duration:     trim(req.Duration),
		Requirements: trim(req.Requirements),
		Benefits:     trim(req.Benefits),
		ImageURL:     optionalString(req.ImageURL),
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := s.repo.Create(ctx, program); err != nil {
		return nil, internalError(err, "failed to create program")
	}
	s.invalidate(ctx)
	return program, nil
}

// Update applies the provided fields to a program.
func (s *ProgramService) Update(ctx context.Context, id int64, req UpdateProgramRequest) (*models.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, errProgramMissing, "program")
	}

	for _, p := range []struct {
		dst   *string
		value *string
		code  string
		label string
	}{
		{&program.Title, req.Title, "INVALID_TITLE", "title"},
		{&program.Description, req.Description, "INVALID_DESCRIPTION", "description"},
		{&program.Duration, req.Duration, "INVALID_DURATION", "duration"},
		{&program.Requirements, req.Requirements, "INVALID_REQUIREMENTS", "requirements"},
		{&program.Benefits, req.Benefits, "INVALID_BENEFITS", "benefits"},
	} {
		if err := patchString(p.dst, p.value, p.code, p.label); err != nil {
			return nil, err
		}
	}
	patchOptional(&program.ImageURL, req.ImageURL)
	if req.IsActive != nil {
		program.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, program); err != nil {
		return nil, internalError(err, "failed to update program")
	}
	s.invalidate(ctx)
	return program, nil
}

// Delete removes a program that has no registrations.
func (s *ProgramService) Delete(ctx context.Context, id int64) (*models.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, errProgramMissing, "program")
	}

	count, err := s.repo.CountRegistrations(ctx, id)
	if err != nil {
		return nil, internalError(err, "failed to check program registrations")
	}
	if count > 0 {
		return nil, appErrors.Clone(errProgramInUse, fmt.Sprintf("program has %d registrations and cannot be deleted", count))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, internalError(err, "failed to delete program")
	}
	s.invalidate(ctx)
	return program, nil
}

func (s *ProgramService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, programCachePattern); err != nil {
		s.logger.Warn("program cache invalidation failed", zap.Error(err))
	}
}
