package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeInternal     = "INTERNAL_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeBadRequest   = "BAD_REQUEST"
)

var codeByStatus = map[int]string{
	http.StatusBadRequest:      CodeBadRequest,
	http.StatusUnauthorized:    CodeUnauthorized,
	http.StatusForbidden:       CodeForbidden,
	http.StatusNotFound:        CodeNotFound,
	http.StatusConflict:        CodeConflict,
	http.StatusTooManyRequests: CodeRateLimited,
}

// AppError is a failure raised by a route handler or middleware. StatusCode is
// the declared status used when no more specific classification applies.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	StatusCode int               `json:"-"`
	Err        error             `json:"-"`

	stack
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail records a key/value pair for logs. Details never reach the
// response envelope.
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithError sets the cause.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New creates an AppError with an explicit code.
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		stack:      capture(),
	}
}

// Declared creates an AppError for a bare HTTP status, picking the code from
// the status. Unlisted 4xx statuses map to CodeBadRequest and 5xx statuses
// to CodeInternal.
func Declared(status int, message string) *AppError {
	code, ok := codeByStatus[status]
	switch {
	case ok:
	case status >= http.StatusInternalServerError:
		code = CodeInternal
	default:
		code = CodeBadRequest
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return New(code, message, status)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message, http.StatusInternalServerError)
}

// NotFound reports a missing resource. Resources owned by someone else are
// reported the same way.
func NotFound(resource string) *AppError {
	return New(CodeNotFound, resource+" not found", http.StatusNotFound)
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func RateLimited() *AppError {
	return New(CodeRateLimited, "rate limit exceeded", http.StatusTooManyRequests)
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message, http.StatusBadRequest)
}

// As is errors.As, re-exported so callers importing this package as
// apperrors need not also import the standard errors package.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetAppError returns the outermost AppError in err's chain, or nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsNotFound reports whether err carries a not-found AppError.
func IsNotFound(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == CodeNotFound
}
