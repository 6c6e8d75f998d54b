package apperrors

// Error codes - organized by domain

// Authentication errors (AUTH_*)
const (
	ErrCodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	ErrCodeTokenExpired       = "AUTH_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "AUTH_TOKEN_INVALID"
	ErrCodeAccountBlocked     = "AUTH_ACCOUNT_BLOCKED"
)

// Authorization errors (AUTHZ_*)
const (
	ErrCodeForbidden   = "AUTHZ_FORBIDDEN"
	ErrCodeInvalidRole = "AUTHZ_INVALID_ROLE"
)

// Validation errors (VALIDATION_*)
const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInvalidEmail     = "VALIDATION_INVALID_EMAIL"
	ErrCodePasswordWeak     = "VALIDATION_PASSWORD_WEAK"
	ErrCodePasswordReused   = "VALIDATION_PASSWORD_REUSED"
	ErrCodeMissingField     = "VALIDATION_MISSING_FIELD"
)

// Credential recovery errors (RECOVERY_*)
const (
	ErrCodeRecoveryTokenMissing = "RECOVERY_TOKEN_MISSING"
	ErrCodeRecoveryTokenInvalid = "RECOVERY_TOKEN_INVALID"
	ErrCodeRecoveryTokenExpired = "RECOVERY_TOKEN_EXPIRED"
)

// Resource errors (RESOURCE_*)
const (
	ErrCodeUserNotFound    = "RESOURCE_USER_NOT_FOUND"
	ErrCodeContentNotFound = "RESOURCE_CONTENT_NOT_FOUND"
	ErrCodeResourceExists  = "RESOURCE_ALREADY_EXISTS"
)

// Rate limiting errors (RATE_*)
const (
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
)

// Internal errors (INTERNAL_*)
const (
	ErrCodeDatabaseError   = "INTERNAL_DATABASE_ERROR"
	ErrCodeEmailSendFailed = "INTERNAL_EMAIL_SEND_FAILED"
	ErrCodeStoreIO         = "INTERNAL_STORE_IO"
	ErrCodeUnexpectedError = "INTERNAL_UNEXPECTED_ERROR"
)
