// Package errors provides the unified error type for the habit service.
// Every error that can reach an HTTP client is an *AppError carrying a stable
// code and a recommended HTTP status.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is matches another *AppError by code, so errors.Is works against the
// values returned by the constructors below.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Input errors ---

// InvalidInput creates an AppError for a request body that could not be decoded.
func InvalidInput(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest,
	}
}

// MissingField creates an AppError for a missing required field. The message
// reads "<Label> is missing", e.g. "Name is missing".
func MissingField(field, label string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: label + " is missing",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field},
	}
}

// Validation creates an AppError for failed format validation.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeValidation, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NotFound creates an AppError for a resource that was not found.
func NotFound(resource string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"resource": resource},
	}
}

// RateLimited creates an AppError for too many requests.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Too many requests. Please wait a moment and try again.",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
	}
}

// --- Credential errors ---

// InvalidCredentials is returned for an unknown login key and for a wrong
// password alike.
func InvalidCredentials() *AppError {
	return &AppError{
		Code: ErrCodeInvalidCredentials, Message: "Invalid credentials",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// CredentialExists is returned when registering a login key that is taken.
func CredentialExists() *AppError {
	return &AppError{
		Code: ErrCodeCredentialExists, Message: "User exists",
		HTTPStatus: http.StatusConflict,
	}
}

// PasswordUnchanged is returned when a password change reuses the current password.
func PasswordUnchanged() *AppError {
	return &AppError{
		Code: ErrCodePasswordUnchanged, Message: "New password must be different",
		HTTPStatus: http.StatusBadRequest,
	}
}

// Forbidden is InvalidCredentials answered with 403, for protected resources
// requested without a verified identity.
func Forbidden() *AppError {
	err := InvalidCredentials()
	err.HTTPStatus = http.StatusForbidden
	return err
}

// --- Token errors ---

// TokenError creates an AppError in the token rejection family.
func TokenError(code ErrorCode, reason string) *AppError {
	return &AppError{
		Code: code, Message: reason,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// MalformedToken creates an AppError for a token that cannot be parsed or lacks claims.
func MalformedToken(reason string) *AppError {
	return TokenError(ErrCodeMalformedToken, reason)
}

// InvalidSignature creates an AppError for a token signed with another key or method.
func InvalidSignature() *AppError {
	return TokenError(ErrCodeInvalidSignature, "token signature is invalid")
}

// TokenExpired creates an AppError for a token past its expiration.
func TokenExpired() *AppError {
	return TokenError(ErrCodeTokenExpired, "token has expired")
}

// UnknownSubject creates an AppError for a token whose subject no longer exists.
func UnknownSubject(id string) *AppError {
	return TokenError(ErrCodeUnknownSubject, "token subject not found").WithDetail("id", id)
}

// StaleToken creates an AppError for a token minted before the last password change.
func StaleToken() *AppError {
	return TokenError(ErrCodeStaleToken, "token predates the last password change")
}

// --- Internal errors ---

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// HashingFailure wraps an error raised by the password hash primitive.
func HashingFailure(cause error) *AppError {
	return &AppError{
		Code: ErrCodeHashingFailure, Message: "Password could not be processed.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// SigningFailure wraps an error raised while signing a token.
func SigningFailure(cause error) *AppError {
	return &AppError{
		Code: ErrCodeSigningFailure, Message: "Token could not be issued.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// DatabaseError creates a new AppError for a storage error.
func DatabaseError(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDatabaseError, Message: "A database error occurred.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
