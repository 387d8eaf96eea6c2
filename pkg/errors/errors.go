package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors by code so cloned errors compare equal to their template.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Validation builds a 400 error carrying a field specific code.
func Validation(code, message string) *Error {
	return New(code, http.StatusBadRequest, message)
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid username or password")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrInactiveAccount    = New("INACTIVE_ACCOUNT", http.StatusForbidden, "account is inactive")

	ErrInvalidID                  = New("INVALID_ID", http.StatusBadRequest, "invalid id")
	ErrProgramNotFound            = New("PROGRAM_NOT_FOUND", http.StatusBadRequest, "program not found")
	ErrParentNotFound             = New("PARENT_NOT_FOUND", http.StatusBadRequest, "parent member not found")
	ErrCircularReference          = New("CIRCULAR_REFERENCE", http.StatusBadRequest, "parent assignment would create a cycle")
	ErrHasSubordinates            = New("HAS_SUBORDINATES", http.StatusBadRequest, "member still has subordinates")
	ErrDuplicateSlug              = New("DUPLICATE_SLUG", http.StatusBadRequest, "slug already exists")
	ErrDuplicateKey               = New("DUPLICATE_KEY", http.StatusBadRequest, "setting key already exists")
	ErrDuplicateSection           = New("DUPLICATE_SECTION", http.StatusBadRequest, "profile section already exists")
	ErrRegistrationNumberConflict = New("REGISTRATION_NUMBER_CONFLICT", http.StatusConflict, "could not allocate a unique registration number, please retry")
	ErrInvalidBackup              = New("INVALID_BACKUP", http.StatusBadRequest, "invalid backup format: missing data")
	ErrMissingFile                = New("MISSING_FILE", http.StatusBadRequest, "no file uploaded")
	ErrInvalidFileType            = New("INVALID_FILE_TYPE", http.StatusBadRequest, "file type not allowed")
	ErrFileTooLarge               = New("FILE_TOO_LARGE", http.StatusBadRequest, "file exceeds the maximum upload size")
)

// FromError normalises any error into an *Error. Unclassified errors keep their cause in the message.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, fmt.Sprintf("%s: %v", ErrInternal.Message, err))
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
