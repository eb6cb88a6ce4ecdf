package errors

import (
	"go.uber.org/zap/zapcore"
)

// Descriptor is the flattened view of a failure the classifier works on. Every
// attribute is optional.
type Descriptor struct {
	KindHint          Kind
	Message           string
	HTTPStatus        int
	ProviderDetail    string
	ValidationEntries []FieldError
	DuplicateCode     int
	DuplicateKey      []string
	DeclaredStatus    int
	Trace             string

	// StorageProvider is set when the failure came from the object store.
	StorageProvider string
	// Structured is set when any typed failure was found in the chain.
	// Unstructured (legacy) failures are the only ones matched by keyword.
	Structured bool
}

// Describe flattens err, including wrapped and joined errors, into a Descriptor.
// A nil error yields the empty Descriptor.
func Describe(err error) Descriptor {
	if err == nil {
		return Descriptor{}
	}

	d := Descriptor{
		Message: err.Error(),
		Trace:   Trace(err),
	}

	var uploadErr *UploadError
	if As(err, &uploadErr) {
		d.KindHint = KindUploadParse
		d.Structured = true
	}

	var storageErr *StorageError
	if As(err, &storageErr) {
		d.StorageProvider = storageErr.Provider
		if d.StorageProvider == "" {
			d.StorageProvider = "unknown"
		}
		d.HTTPStatus = storageErr.StatusCode
		d.ProviderDetail = storageErr.Detail
		d.Structured = true
	}

	var validationErr *ValidationError
	if As(err, &validationErr) {
		if d.KindHint == "" {
			d.KindHint = KindValidation
		}
		d.ValidationEntries = append([]FieldError(nil), validationErr.Fields...)
		d.Structured = true
	}

	var dupErr *DuplicateKeyError
	if As(err, &dupErr) {
		d.DuplicateCode = dupErr.Code
		d.DuplicateKey = append([]string(nil), dupErr.Fields...)
		d.Structured = true
	}

	var appErr *AppError
	if As(err, &appErr) {
		d.DeclaredStatus = appErr.StatusCode
		d.Structured = true
	}

	if message := outermostMessage(err); message != "" {
		d.Message = message
	}

	return d
}

// outermostMessage returns the first non-empty message of an upload, storage
// or app failure met walking err's chain from the outside in. Joined errors
// are walked depth first in order.
func outermostMessage(err error) string {
	for err != nil {
		var message string
		switch e := err.(type) {
		case *UploadError:
			message = e.Message
		case *StorageError:
			message = e.Message
		case *AppError:
			message = e.Message
		}
		if message != "" {
			return message
		}

		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				if message := outermostMessage(inner); message != "" {
					return message
				}
			}
			return ""
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		default:
			return ""
		}
	}
	return ""
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (d Descriptor) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if d.KindHint != "" {
		enc.AddString("kind_hint", string(d.KindHint))
	}
	enc.AddString("message", d.Message)
	if d.StorageProvider != "" {
		enc.AddString("storage_provider", d.StorageProvider)
	}
	if d.HTTPStatus != 0 {
		enc.AddInt("http_status", d.HTTPStatus)
	}
	if d.ProviderDetail != "" {
		enc.AddString("provider_detail", d.ProviderDetail)
	}
	if len(d.ValidationEntries) > 0 {
		_ = enc.AddArray("validation_entries", fieldErrors(d.ValidationEntries))
	}
	if d.DuplicateCode != 0 {
		enc.AddInt("duplicate_code", d.DuplicateCode)
		_ = enc.AddArray("duplicate_key", zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
			for _, f := range d.DuplicateKey {
				arr.AppendString(f)
			}
			return nil
		}))
	}
	if d.DeclaredStatus != 0 {
		enc.AddInt("declared_status", d.DeclaredStatus)
	}
	enc.AddBool("structured", d.Structured)
	return nil
}

type fieldErrors []FieldError

func (fe fieldErrors) MarshalLogArray(arr zapcore.ArrayEncoder) error {
	for _, f := range fe {
		if err := arr.AppendObject(zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
			enc.AddString("field", f.Field)
			enc.AddString("message", f.Message)
			return nil
		})); err != nil {
			return err
		}
	}
	return nil
}
