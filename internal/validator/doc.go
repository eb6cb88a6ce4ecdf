// Package validator provides struct validation for request inputs.
//
// It wraps go-playground/validator and reports failures as
// *errors.ValidationError with one entry per failing field, named after the
// field's JSON key and carrying a full sentence such as "name is required".
//
//	if err := validator.Validate(input); err != nil {
//	    return nil, err
//	}
//
// Besides the built-in tags, "notblank" rejects whitespace-only strings.
package validator
