package models

import (
	"errors"
	"fmt"
)

// Error codes for structured error handling.
const (
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeCrypto     = "CRYPTO_INVARIANT"
	ErrCodePermission = "PERMISSION_DENIED"
	ErrCodeAuth       = "AUTH_ERROR"
	ErrCodeStorage    = "STORAGE_ERROR"
	ErrCodeNetwork    = "NETWORK_ERROR"
	ErrCodeServer     = "SERVER_ERROR"
)

// Sentinel errors
var (
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrAuthExpired        = errors.New("authorization expired")
	ErrAlreadyConfigured  = errors.New("auto-relogin already configured")
	ErrStorageUnavailable = errors.New("durable storage unavailable")
	ErrConnectionClosed   = errors.New("authority connection closed")
	ErrDataKeyMismatch    = errors.New("entry data key does not match path")
)

// APIError represents an error from the portal API.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("portal error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Is reports whether a 401 APIError matches ErrAuthExpired.
func (e *APIError) Is(target error) bool {
	return target == ErrAuthExpired && e.StatusCode == 401
}

// CryptoInvariantError reports a broken length or format invariant in key
// material. It always indicates a protocol or implementation bug, never bad
// user input, so callers must not swallow it.
type CryptoInvariantError struct {
	What     string
	Expected int
	Actual   int
}

func (e *CryptoInvariantError) Error() string {
	return fmt.Sprintf("crypto invariant violated: %s: expected %d bytes, got %d",
		e.What, e.Expected, e.Actual)
}

// PermissionDeniedError reports that the permissions authority refused an
// operation. This is an expected policy outcome, not a failure of the stack.
type PermissionDeniedError struct {
	Permission Permission
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Permission.String())
}
