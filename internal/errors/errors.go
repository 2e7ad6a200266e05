package errors

import (
	"net/http"
	"time"
)

// Machine-readable error kinds surfaced to API clients alongside the message.
const (
	KindAuthMissing    = "authentication_required"
	KindBadCredentials = "invalid_credentials"
	KindAuthExpired    = "token_expired"
	KindAuthInvalid    = "invalid_token"
	KindForbidden      = "insufficient_privilege"
	KindLocked         = "account_locked"
	KindRateLimited    = "too_many_attempts"
	KindValidation     = "validation_failed"
	KindNotFound       = "not_found"
	KindConflict       = "conflict"
	KindServer         = "server_error"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
	Kind       string
	// Fields carries per-field validation messages for KindValidation errors.
	Fields map[string]string
	// UnlockAt is set on KindLocked errors so clients get a machine-readable
	// end of the lockout alongside the human message.
	UnlockAt *time.Time
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func New(message string, statusCode int, kind string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: statusCode, Kind: kind}
}

func AuthMissing() *ErrorWithStatusCode {
	return New("Authentication required", http.StatusUnauthorized, KindAuthMissing)
}

// InvalidCredentials covers wrong-password and unknown-email logins with one
// indistinguishable response.
func InvalidCredentials() *ErrorWithStatusCode {
	return New("Invalid email or password", http.StatusUnauthorized, KindBadCredentials)
}

func AuthExpired() *ErrorWithStatusCode {
	return New("Token expired", http.StatusUnauthorized, KindAuthExpired)
}

func AuthInvalid() *ErrorWithStatusCode {
	return New("Invalid token", http.StatusForbidden, KindAuthInvalid)
}

func Forbidden(message string) *ErrorWithStatusCode {
	return New(message, http.StatusForbidden, KindForbidden)
}

func Locked(message string) *ErrorWithStatusCode {
	return New(message, http.StatusLocked, KindLocked)
}

// LockedUntil is a Locked error carrying the unlock timestamp.
func LockedUntil(message string, until time.Time) *ErrorWithStatusCode {
	e := Locked(message)
	e.UnlockAt = &until
	return e
}

func RateLimited(message string) *ErrorWithStatusCode {
	return New(message, http.StatusTooManyRequests, KindRateLimited)
}

func NotFound(message string) *ErrorWithStatusCode {
	return New(message, http.StatusNotFound, KindNotFound)
}

func Conflict(message string) *ErrorWithStatusCode {
	return New(message, http.StatusConflict, KindConflict)
}

func Validation(message string, fields map[string]string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest, Kind: KindValidation, Fields: fields}
}

func statusOf(err error) int {
	if e, ok := err.(*ErrorWithStatusCode); ok {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

func IsExpired(err error) bool {
	e, ok := err.(*ErrorWithStatusCode)
	return ok && e.Kind == KindAuthExpired
}
