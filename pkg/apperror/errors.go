package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrBadRequest       = errors.New("bad request")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInternal         = errors.New("internal server error")
	ErrInvalidInput     = errors.New("invalid input")
	ErrRateLimited      = errors.New("rate limit exceeded")
)

// AppError carries an HTTP status, a stable message key the client can
// translate, and the raw diagnostic error which is logged but never
// returned to the end user.
type AppError struct {
	Code       int
	MessageKey string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.MessageKey
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, messageKey string, err error) *AppError {
	return &AppError{
		Code:       code,
		MessageKey: messageKey,
		Err:        err,
	}
}

// Forbidden wraps ErrForbidden with a message key and diagnostic detail.
func Forbidden(messageKey, detail string) *AppError {
	return New(http.StatusForbidden, messageKey, wrap(ErrForbidden, detail))
}

// NotFound wraps ErrNotFound with a message key and diagnostic detail.
func NotFound(messageKey, detail string) *AppError {
	return New(http.StatusNotFound, messageKey, wrap(ErrNotFound, detail))
}

// InvalidOperation marks a business-rule violation: the entities exist but
// the operation breaks a domain rule (self-review, duplicate review, ...).
func InvalidOperation(messageKey, detail string) *AppError {
	return New(http.StatusConflict, messageKey, wrap(ErrInvalidOperation, detail))
}

func wrap(sentinel error, detail string) error {
	if detail == "" {
		return sentinel
	}
	return errors.Join(sentinel, errors.New(detail))
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrInvalidOperation) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRateLimited) {
		return http.StatusTooManyRequests
	}
	// Default to internal server error
	return http.StatusInternalServerError
}

// MessageKey extracts the translatable key for the response body. Plain
// errors fall back to a generic key so raw detail never leaks.
func MessageKey(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.MessageKey != "" {
		return appErr.MessageKey
	}
	switch MapErrorToStatus(err) {
	case http.StatusNotFound:
		return "app.Error_NotFound"
	case http.StatusForbidden:
		return "app.Error_Forbidden"
	case http.StatusUnauthorized:
		return "app.Error_Unauthorized"
	case http.StatusConflict:
		return "app.Error_InvalidOperation"
	case http.StatusBadRequest:
		return "app.Error_BadRequest"
	case http.StatusTooManyRequests:
		return "app.Error_TooManyRequests"
	default:
		return "app.Error_Internal"
	}
}
