package service

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/lpk-cms-api/internal/models"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

// requiredField pairs a submitted value with the code reported when it is blank.
type requiredField struct {
	code  string
	label string
	value string
}

func requireFields(fields ...requiredField) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return appErrors.Validation(f.code, f.label+" is required")
		}
	}
	return nil
}

// patchString copies the trimmed value into dst when the client sent one. Blank values are rejected with code.
func patchString(dst *string, value *string, code, label string) error {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return appErrors.Validation(code, label+" cannot be empty")
	}
	*dst = trimmed
	return nil
}

// patchOptional replaces a nullable column. An empty string clears it.
func patchOptional(dst **string, value *string) {
	if value == nil {
		return
	}
	*dst = optionalString(value)
}

// optionalString trims value and maps blank to nil.
func optionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validEmail(validate *validator.Validate, email string) bool {
	return validate.Var(email, "required,email") == nil
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// loadError maps sql.ErrNoRows to notFound and everything else to a 500.
func loadError(err error, notFound *appErrors.Error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return internalError(err, "failed to load "+what)
}

func pageOf(params models.ListParams, total int) *response.Pagination {
	p := params.Normalize()
	return &response.Pagination{Limit: p.Limit, Offset: p.Offset, Total: total}
}

func trim(value string) string {
	return strings.TrimSpace(value)
}
