// Package validation reports input validation failures as AppErrors.
//
// Struct tags are checked with go-playground/validator; ad-hoc rules use the
// fluent Validator:
//
//	err := validation.New().
//	    MinLength("password", pw, 8).
//	    MaxLength("password", pw, 128).
//	    Validate()
package validation
