package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

type contactMessageRepository interface {
	List(ctx context.Context, filter models.ContactMessageFilter) ([]models.ContactMessage, int, error)
	FindByID(ctx context.Context, id int64) (*models.ContactMessage, error)
	Create(ctx context.Context, message *models.ContactMessage) error
	Update(ctx context.Context, message *models.ContactMessage) error
	Delete(ctx context.Context, id int64) error
}

// CreateContactMessageRequest is the public contact form payload.
type CreateContactMessageRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Subject string  `json:"subject"`
	Message string  `json:"message"`
}

// UpdateContactMessageRequest lets an admin triage a message.
type UpdateContactMessageRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Subject *string `json:"subject"`
	Message *string `json:"message"`
	Status  *string `json:"status"`
}

// ContactMessageService handles contact form workflows.
type ContactMessageService struct {
	repo      contactMessageRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewContactMessageService creates a new contact message service.
func NewContactMessageService(repo contactMessageRepository, validate *validator.Validate, logger *zap.Logger) *ContactMessageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactMessageService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated messages.
func (s *ContactMessageService) List(ctx context.Context, filter models.ContactMessageFilter) ([]models.ContactMessage, *response.Pagination, error) {
	messages, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list contact messages")
	}
	return messages, pageOf(filter.ListParams, total), nil
}

// Get returns a message by id.
func (s *ContactMessageService) Get(ctx context.Context, id int64) (*models.ContactMessage, error) {
	message, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, appErrors.Clone(appErrors.ErrNotFound, "contact message not found"), "contact message")
	}
	return message, nil
}

// Create stores a submitted message with status new.
func (s *ContactMessageService) Create(ctx context.Context, req CreateContactMessageRequest) (*models.ContactMessage, error) {
	if err := requireFields(
		requiredField{"MISSING_NAME", "name", req.Name},
		requiredField{"MISSING_EMAIL", "email", req.Email},
		requiredField{"MISSING_SUBJECT", "subject", req.Subject},
		requiredField{"MISSING_MESSAGE", "message", req.Message},
	); err != nil {
		return nil, err
	}
	email := strings.ToLower(trim(req.Email))
	if !validEmail(s.validator, email) {
		return nil, appErrors.Validation("INVALID_EMAIL", "email format is invalid")
	}

	message := &models.ContactMessage{
		Name:    trim(req.Name),
		Email:   email,
		Phone:   optionalString(req.Phone),
		Subject: trim(req.Subject),
		Message: trim(req.Message),
		Status:  models.ContactMessageStatusNew,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, internalError(err, "failed to save contact message")
	}
	return message, nil
}

// Update applies the provided fields to a message.
func (s *ContactMessageService) Update(ctx context.Context, id int64, req UpdateContactMessageRequest) (*models.ContactMessage, error) {
	message, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, p := range []struct {
		dst   *string
		value *string
		code  string
		label string
	}{
		{&message.Name, req.Name, "INVALID_NAME", "name"},
		{&message.Subject, req.Subject, "INVALID_SUBJECT", "subject"},
		{&message.Message, req.Message, "INVALID_MESSAGE", "message"},
		{&message.Status, req.Status, "INVALID_STATUS", "status"},
	} {
		if err := patchString(p.dst, p.value, p.code, p.label); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		email := strings.ToLower(trim(*req.Email))
		if !validEmail(s.validator, email) {
			return nil, appErrors.Validation("INVALID_EMAIL", "email format is invalid")
		}
		message.Email = email
	}
	patchOptional(&message.Phone, req.Phone)

	if err := s.repo.Update(ctx, message); err != nil {
		return nil, internalError(err, "failed to update contact message")
	}
	return message, nil
}

// Delete removes a message and returns it.
func (s *ContactMessageService) Delete(ctx context.Context, id int64) (*models.ContactMessage, error) {
	message, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, internalError(err, "failed to delete contact message")
	}
	return message, nil
}
