package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	"github.com/noah-isme/lpk-cms-api/internal/repository"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/export"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

var errInvalidStatus = appErrors.Validation("INVALID_STATUS", "status must be one of "+joinStatuses(models.RegistrationStatuses))

var errInvalidExportFormat = appErrors.New("INVALID_FORMAT", http.StatusBadRequest, "format must be csv or pdf")

type registrationRepository interface {
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, int, error)
	ListAll(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error)
	FindByID(ctx context.Context, id int64) (*models.Registration, error)
	FindByNumber(ctx context.Context, number string) (*models.Registration, error)
	LatestNumber(ctx context.Context, prefix string) (string, error)
	Create(ctx context.Context, registration *models.Registration) error
	Update(ctx context.Context, registration *models.Registration) error
	Delete(ctx context.Context, id int64) error
}

type registrationProgramLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Titles(ctx context.Context) (map[int64]string, error)
}

// CreateRegistrationRequest is the public application form. Any status sent by the client is ignored.
type CreateRegistrationRequest struct {
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	DateOfBirth string  `json:"dateOfBirth"`
	Education   string  `json:"education"`
	Address     string  `json:"address"`
	ProgramID   *int64  `json:"programId"`
	Notes       *string `json:"notes"`
}

// UpdateRegistrationRequest lets an admin correct applicant data and move the status.
type UpdateRegistrationRequest struct {
	FullName    *string `json:"fullName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"dateOfBirth"`
	Education   *string `json:"education"`
	Address     *string `json:"address"`
	ProgramID   *int64  `json:"programId"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
}

// ExportFile is a rendered registrations export.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// RegistrationConfig tunes number allocation. Location picks the calendar year; nil means the host zone.
type RegistrationConfig struct {
	MaxAttempts int
	Location    *time.Location
}

// RegistrationService handles applications and registration number allocation.
type RegistrationService struct {
	repo      registrationRepository
	programs  registrationProgramLookup
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    RegistrationConfig
	now       func() time.Time
}

// NewRegistrationService creates a new registration service.
func NewRegistrationService(repo registrationRepository, programs registrationProgramLookup, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg RegistrationConfig) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &RegistrationService{
		repo:      repo,
		programs:  programs,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    cfg,
		now:       time.Now,
	}
}

// List returns paginated registrations, newest first.
func (s *RegistrationService) List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, *response.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, errInvalidStatus
	}
	registrations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list registrations")
	}
	return registrations, pageOf(filter.ListParams, total), nil
}

// Get returns a registration by id.
func (s *RegistrationService) Get(ctx context.Context, id int64) (*models.Registration, error) {
	registration, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, appErrors.Clone(appErrors.ErrNotFound, "registration not found"), "registration")
	}
	return registration, nil
}

// Lookup returns the public status view of a registration by its number.
func (s *RegistrationService) Lookup(ctx context.Context, number string) (*models.RegistrationStatusView, error) {
	number = strings.ToUpper(trim(number))
	if number == "" {
		return nil, appErrors.Validation("MISSING_REGISTRATION_NUMBER", "registration number is required")
	}
	registration, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, loadError(err, appErrors.Clone(appErrors.ErrNotFound, "registration not found"), "registration")
	}
	view := &models.RegistrationStatusView{
		RegistrationNumber: registration.RegistrationNumber,
		FullName:           registration.FullName,
		ProgramID:          registration.ProgramID,
		Status:             registration.Status,
		CreatedAt:          registration.CreatedAt,
	}
	if titles, err := s.programs.Titles(ctx); err != nil {
		s.logger.Warn("program titles unavailable for status lookup", zap.Error(err))
	} else {
		view.ProgramTitle = titles[registration.ProgramID]
	}
	return view, nil
}

// Create validates an application, checks the program and assigns the next number for the current year.
// A number taken by a concurrent submission is re-allocated up to MaxAttempts times.
func (s *RegistrationService) Create(ctx context.Context, req CreateRegistrationRequest) (*models.Registration, error) {
	if err := requireFields(
		requiredField{"MISSING_FULL_NAME", "full name", req.FullName},
		requiredField{"MISSING_EMAIL", "email", req.Email},
	); err != nil {
		return nil, err
	}
	email := strings.ToLower(trim(req.Email))
	if !validEmail(s.validator, email) {
		return nil, appErrors.Validation("INVALID_EMAIL", "email format is invalid")
	}
	if err := requireFields(
		requiredField{"MISSING_PHONE", "phone", req.Phone},
		requiredField{"MISSING_DATE_OF_BIRTH", "date of birth", req.DateOfBirth},
		requiredField{"MISSING_EDUCATION", "education", req.Education},
		requiredField{"MISSING_ADDRESS", "address", req.Address},
	); err != nil {
		return nil, err
	}
	if req.ProgramID == nil {
		return nil, appErrors.Validation("MISSING_PROGRAM_ID", "program id is required")
	}
	if err := s.ensureProgram(ctx, *req.ProgramID); err != nil {
		return nil, err
	}

	registration := &models.Registration{
		FullName:    trim(req.FullName),
		Email:       email,
		Phone:       trim(req.Phone),
		DateOfBirth: trim(req.DateOfBirth),
		Education:   trim(req.Education),
		Address:     trim(req.Address),
		ProgramID:   *req.ProgramID,
		Status:      models.RegistrationStatusPending,
		Notes:       optionalString(req.Notes),
	}

	year := s.now().In(s.config.Location).Year()
	prefix := RegistrationPrefix(year)
	for attempt := 1; attempt <= s.config.MaxAttempts; attempt++ {
		latest, err := s.repo.LatestNumber(ctx, prefix)
		if err != nil {
			return nil, internalError(err, "failed to read latest registration number")
		}
		registration.RegistrationNumber = NextRegistrationNumber(latest, year)

		err = s.repo.Create(ctx, registration)
		if err == nil {
			s.metrics.RegistrationCreated()
			return registration, nil
		}
		if !repository.IsUniqueViolation(err) {
			return nil, internalError(err, "failed to create registration")
		}
		s.metrics.RegistrationNumberConflict()
		s.logger.Warn("registration number taken, retrying",
			zap.String("registration_number", registration.RegistrationNumber), zap.Int("attempt", attempt))
	}
	return nil, appErrors.ErrRegistrationNumberConflict
}

// Update applies the provided fields. The registration number never changes and any status may follow any other.
func (s *RegistrationService) Update(ctx context.Context, id int64, req UpdateRegistrationRequest) (*models.Registration, error) {
	registration, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, p := range []struct {
		dst   *string
		value *string
		code  string
		label string
	}{
		{&registration.FullName, req.FullName, "EMPTY_FULL_NAME", "full name"},
		{&registration.Phone, req.Phone, "EMPTY_PHONE", "phone"},
		{&registration.DateOfBirth, req.DateOfBirth, "EMPTY_DATE_OF_BIRTH", "date of birth"},
		{&registration.Education, req.Education, "EMPTY_EDUCATION", "education"},
		{&registration.Address, req.Address, "EMPTY_ADDRESS", "address"},
	} {
		if err := patchString(p.dst, p.value, p.code, p.label); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		email := strings.ToLower(trim(*req.Email))
		if email == "" {
			return nil, appErrors.Validation("EMPTY_EMAIL", "email cannot be empty")
		}
		if !validEmail(s.validator, email) {
			return nil, appErrors.Validation("INVALID_EMAIL", "email format is invalid")
		}
		registration.Email = email
	}
	if req.ProgramID != nil {
		if err := s.ensureProgram(ctx, *req.ProgramID); err != nil {
			return nil, err
		}
		registration.ProgramID = *req.ProgramID
	}
	if req.Status != nil {
		status := models.RegistrationStatus(strings.ToLower(trim(*req.Status)))
		if !status.Valid() {
			return nil, errInvalidStatus
		}
		registration.Status = status
	}
	patchOptional(&registration.Notes, req.Notes)

	if err := s.repo.Update(ctx, registration); err != nil {
		return nil, internalError(err, "failed to update registration")
	}
	return registration, nil
}

// Delete removes a registration and returns it.
func (s *RegistrationService) Delete(ctx context.Context, id int64) (*models.Registration, error) {
	registration, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, internalError(err, "failed to delete registration")
	}
	return registration, nil
}

// Export renders every registration matching filter as csv or pdf.
func (s *RegistrationService) Export(ctx context.Context, filter models.RegistrationFilter, format string) (*ExportFile, error) {
	format = strings.ToLower(trim(format))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		return nil, errInvalidExportFormat
	}

	registrations, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to load registrations for export")
	}
	titles, err := s.programs.Titles(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load program titles")
	}
	dataset := registrationDataset(registrations, titles)
	stamp := s.now().UTC().Format("20060102-150405")

	if format == "pdf" {
		content, err := export.NewPDFExporter().Render(dataset, "Registrations")
		if err != nil {
			return nil, internalError(err, "failed to render registrations pdf")
		}
		return &ExportFile{Filename: fmt.Sprintf("registrations-%s.pdf", stamp), ContentType: "application/pdf", Content: content}, nil
	}
	content, err := export.NewCSVExporter().Render(dataset)
	if err != nil {
		return nil, internalError(err, "failed to render registrations csv")
	}
	return &ExportFile{Filename: fmt.Sprintf("registrations-%s.csv", stamp), ContentType: "text/csv", Content: content}, nil
}

func (s *RegistrationService) ensureProgram(ctx context.Context, programID int64) error {
	if programID <= 0 {
		return appErrors.Validation("INVALID_PROGRAM_ID", "program id must be a positive integer")
	}
	exists, err := s.programs.Exists(ctx, programID)
	if err != nil {
		return internalError(err, "failed to check program")
	}
	if !exists {
		return appErrors.ErrProgramNotFound
	}
	return nil
}

func registrationDataset(registrations []models.Registration, titles map[int64]string) export.Dataset {
	dataset := export.Dataset{
		Columns: []export.Column{
			{Key: "number", Label: "Registration Number", Width: 1.4},
			{Key: "name", Label: "Full Name", Width: 1.6},
			{Key: "email", Label: "Email", Width: 1.8},
			{Key: "phone", Label: "Phone", Width: 1.1},
			{Key: "education", Label: "Education"},
			{Key: "program", Label: "Program", Width: 1.6},
			{Key: "status", Label: "Status", Width: 0.8},
			{Key: "created", Label: "Submitted", Width: 1.1},
		},
		Rows: make([]map[string]string, 0, len(registrations)),
	}
	for _, r := range registrations {
		program := titles[r.ProgramID]
		if program == "" {
			program = fmt.Sprintf("#%d", r.ProgramID)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"number":    r.RegistrationNumber,
			"name":      r.FullName,
			"email":     r.Email,
			"phone":     r.Phone,
			"education": r.Education,
			"program":   program,
			"status":    string(r.Status),
			"created":   r.CreatedAt.UTC().Format("2006-01-02 15:04"),
		})
	}
	return dataset
}

func joinStatuses(statuses []models.RegistrationStatus) string {
	names := make([]string, len(statuses))
	for i, status := range statuses {
		names[i] = string(status)
	}
	return strings.Join(names, ", ")
}
