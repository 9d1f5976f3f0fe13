package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeRateLimited indicates the client is rate limited.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the request body could not be read.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeValidation indicates one or more fields failed format validation.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Credential errors
const (
	// ErrCodeInvalidCredentials covers both an unknown login key and a wrong password.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrCodeCredentialExists indicates the login key is already registered.
	ErrCodeCredentialExists ErrorCode = "CREDENTIAL_EXISTS"
	// ErrCodePasswordUnchanged indicates the new password equals the current one.
	ErrCodePasswordUnchanged ErrorCode = "PASSWORD_UNCHANGED"
)

// Token errors. These never reach clients verbatim.
const (
	ErrCodeMalformedToken   ErrorCode = "MALFORMED_TOKEN"
	ErrCodeInvalidSignature ErrorCode = "INVALID_SIGNATURE"
	ErrCodeTokenExpired     ErrorCode = "TOKEN_EXPIRED"
	ErrCodeUnknownSubject   ErrorCode = "UNKNOWN_SUBJECT"
	ErrCodeStaleToken       ErrorCode = "STALE_TOKEN"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeHashingFailure indicates the password hash primitive failed.
	ErrCodeHashingFailure ErrorCode = "HASHING_FAILURE"
	// ErrCodeSigningFailure indicates a token could not be signed.
	ErrCodeSigningFailure ErrorCode = "SIGNING_FAILURE"
	// ErrCodeDatabaseError indicates a storage error.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeRateLimited:        true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Storage errors are never retryable.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsTokenCode reports whether code belongs to the token rejection family.
func IsTokenCode(code ErrorCode) bool {
	switch code {
	case ErrCodeMalformedToken, ErrCodeInvalidSignature, ErrCodeTokenExpired,
		ErrCodeUnknownSubject, ErrCodeStaleToken:
		return true
	}
	return false
}
