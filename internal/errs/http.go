package errs

import (
	"net/http"
)

// codeFor derives the machine-readable code from the status text.
func codeFor(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewUnauthorizedError creates a 401 error.
func NewUnauthorizedError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     codeFor(http.StatusUnauthorized),
		Message:  message,
		Status:   http.StatusUnauthorized,
		Override: override,
	}
}

// NewForbiddenError creates a 403 error.
func NewForbiddenError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     codeFor(http.StatusForbidden),
		Message:  message,
		Status:   http.StatusForbidden,
		Override: override,
	}
}

// NewBadRequestError creates a 400 error.
//
// code overrides the default "BAD_REQUEST" when non-nil; errors and action
// are passed through to the response untouched.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := codeFor(http.StatusBadRequest)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 error with an optional custom code.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := codeFor(http.StatusNotFound)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewTooManyRequestsError creates a 429 error, used by the rate limiter.
func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:     codeFor(http.StatusTooManyRequests),
		Message:  message,
		Status:   http.StatusTooManyRequests,
		Override: true,
	}
}

// NewBadGatewayError creates a 502 error for failures of an upstream
// provider (e.g. the mail API rejected the message).
//
// The message is shown to clients, so it must not carry provider details.
func NewBadGatewayError(message string) *HTTPError {
	return &HTTPError{
		Code:     codeFor(http.StatusBadGateway),
		Message:  message,
		Status:   http.StatusBadGateway,
		Override: false,
	}
}

// NewInternalServerError creates a generic 500. The real cause is logged,
// never returned.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     codeFor(http.StatusInternalServerError),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// ValidationError converts a validation error into a 400.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}
