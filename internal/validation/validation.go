// Package validation binds and validates request payloads.
//
// Request types carry go-playground/validator tags and implement
// Validatable; BindAndValidate turns failures into a 400 errs.HTTPError
// with one FieldError per offending field.
package validation
