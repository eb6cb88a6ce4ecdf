package errors

import (
	"fmt"
	"strings"
)

// Kind is the categorical hint an origin attaches to its failures.
type Kind string

const (
	// KindUploadParse marks failures raised while reading an uploaded file.
	KindUploadParse Kind = "upload-parse"
	// KindValidation marks field-level validation failures.
	KindValidation Kind = "validation"
)

// DuplicateKeyCode is the code uniqueness violations are reported with.
const DuplicateKeyCode = 11000

// UploadError is raised by the upload parser for a missing, malformed or
// oversized file. Its message is produced locally and is safe to expose.
type UploadError struct {
	Message string
	Field   string
	Err     error

	stack
}

// Upload creates an upload parse error.
func Upload(message string) *UploadError {
	return &UploadError{Message: message, stack: capture()}
}

// Uploadf creates an upload parse error with a formatted message.
func Uploadf(format string, args ...any) *UploadError {
	return &UploadError{Message: fmt.Sprintf(format, args...), stack: capture()}
}

// WithField records the form field the file was expected in.
func (e *UploadError) WithField(field string) *UploadError {
	e.Field = field
	return e
}

// WithError wraps an underlying error.
func (e *UploadError) WithError(err error) *UploadError {
	e.Err = err
	return e
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// StorageError is raised by the object store when the remote provider rejects
// or fails a call. StatusCode and Detail mirror what the provider reported.
type StorageError struct {
	Provider   string
	Message    string
	StatusCode int
	Detail     string
	Err        error

	stack
}

// Storage creates an object storage error for the named provider.
func Storage(provider, message string) *StorageError {
	return &StorageError{Provider: provider, Message: message, stack: capture()}
}

// WithStatus records the HTTP status the provider answered with.
func (e *StorageError) WithStatus(code int) *StorageError {
	e.StatusCode = code
	return e
}

// WithDetail records supplementary provider output.
func (e *StorageError) WithDetail(detail string) *StorageError {
	e.Detail = detail
	return e
}

// WithError wraps an underlying error.
func (e *StorageError) WithError(err error) *StorageError {
	e.Err = err
	return e
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// FieldError is a single field validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field validation messages in the order they were
// reported.
type ValidationError struct {
	Fields []FieldError

	stack
}

// Validation creates a validation error from field entries.
func Validation(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields, stack: capture()}
}

// Add appends a field entry.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// Messages returns the entry messages in insertion order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return msgs
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// DuplicateKeyError is raised by the persistence layer when a write violates a
// uniqueness constraint. Only the field names are kept; the rejected values
// never leave the repository.
type DuplicateKeyError struct {
	Code   int
	Fields []string
	Err    error

	stack
}

// DuplicateKey creates a uniqueness violation for the given fields.
func DuplicateKey(fields ...string) *DuplicateKeyError {
	return &DuplicateKeyError{Code: DuplicateKeyCode, Fields: fields, stack: capture()}
}

// WithError wraps the driver error.
func (e *DuplicateKeyError) WithError(err error) *DuplicateKeyError {
	e.Err = err
	return e
}

func (e *DuplicateKeyError) Error() string {
	return "duplicate key: " + strings.Join(e.Fields, ", ")
}

func (e *DuplicateKeyError) Unwrap() error {
	return e.Err
}
