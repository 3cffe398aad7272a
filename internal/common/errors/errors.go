// Package errors provides standardized error handling for the file gate.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeOracleUnavailable     ErrorCode = "ORACLE_UNAVAILABLE"
	ErrCodeInvalidOrExpiredToken ErrorCode = "INVALID_OR_EXPIRED_TOKEN"
	ErrCodeLeaseNotFound         ErrorCode = "LEASE_NOT_FOUND"
	ErrCodeOriginUnavailable     ErrorCode = "ORIGIN_UNAVAILABLE"
	ErrCodeStoreUnavailable      ErrorCode = "STORE_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewOracleUnavailableError reports a membership check failure. Callers are
// expected to recover locally by treating the user as not exempt.
func NewOracleUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOracleUnavailable,
		Message:   "Membership oracle check failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidOrExpiredTokenError creates a user-visible token rejection.
func NewInvalidOrExpiredTokenError(userID int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidOrExpiredToken,
		Message:   "Access token is invalid or has expired",
		Details:   fmt.Sprintf("userId: %d", userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLeaseNotFoundError creates a "no such link" error.
func NewLeaseNotFoundError(shareLink string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLeaseNotFound,
		Message:   "No lease exists for share link",
		Details:   fmt.Sprintf("shareLink: %s", shareLink),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOriginUnavailableError creates a retryable re-archive failure.
func NewOriginUnavailableError(shareLink string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOriginUnavailable,
		Message:   "Archived origin could not be refreshed",
		Details:   fmt.Sprintf("shareLink: %s, error: %s", shareLink, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreUnavailableError creates a fatal persistence error. It is propagated
// to the transport layer so it can report a generic failure; no automatic retry.
func NewStoreUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreUnavailable,
		Message:   "Document store operation failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
