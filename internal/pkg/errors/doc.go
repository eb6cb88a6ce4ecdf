// Package errors provides the failure types raised across the Vizboard request
// pipeline and the classifier that turns any of them into a client response.
//
// This package defines:
//   - AppError for failures raised by route handlers with a declared status
//   - UploadError, StorageError, ValidationError and DuplicateKeyError, one per
//     origin (upload parser, object store, validator, persistence layer)
//   - Describe, which flattens an error chain into a Descriptor
//   - Classifier, which maps a Descriptor to a response Envelope
//
// # Classification
//
// Rules are evaluated in order and the first match wins:
//
//  1. upload parse failures             400 "File upload error"
//  2. object storage failures           provider status or 400, "Cloudinary error"
//  3. legacy errors mentioning upload,
//     file or storage                   400 "File upload error"
//  4. validation failures               400 "Validation error"
//  5. uniqueness violations             400 "Duplicate field value entered"
//  6. everything else                   declared status or 500
//
// Keyword matching (rules 2 and 3) only applies to legacy errors: plain Go
// errors that carry none of the types above.
//
// Provider and declared statuses are used as given when they lie in 200-599.
// A zero status, or one a response with a body cannot carry, takes the rule's
// default instead.
//
// # Usage
//
// Raise failures with the constructor for their origin:
//
//	return apperrors.Upload("File too large")
//	return apperrors.NotFound("project")
//	return apperrors.DuplicateKey("slug")
//
// Classify at the edge of the pipeline:
//
//	env := classifier.Classify(err)
//	return c.Status(env.StatusCode).JSON(env)
package errors
