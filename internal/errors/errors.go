package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// InputMalformed indicates an artifact could not be read or decoded
	InputMalformed ErrorCode = "INPUT_MALFORMED"
	// SnapshotMalformed indicates the snapshot CSV violates the exact layout
	SnapshotMalformed ErrorCode = "SNAPSHOT_MALFORMED"
	// StructureInvalid indicates ordering, duplicate, totals, or canonical hash problems
	StructureInvalid ErrorCode = "STRUCTURE_INVALID"
	// IntegrityMismatch indicates the raw snapshot bytes do not hash to the committed value
	IntegrityMismatch ErrorCode = "INTEGRITY_MISMATCH"
	// SeedUnavailable indicates the seed has not been revealed yet
	SeedUnavailable ErrorCode = "SEED_UNAVAILABLE"
	// ReproductionMismatch indicates the recomputed winners differ from the published list
	ReproductionMismatch ErrorCode = "REPRODUCTION_MISMATCH"
	// HistoryUnavailable indicates the local run ledger could not be opened or written
	HistoryUnavailable ErrorCode = "HISTORY_UNAVAILABLE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// AuditError represents a verification error with a stable code and detail payload
type AuditError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new AuditError
func New(code ErrorCode, message string, cause error) *AuditError {
	return &AuditError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates a new AuditError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AuditError {
	return &AuditError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (e *AuditError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AuditError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *AuditError) WithDetails(details interface{}) *AuditError {
	e.Details = details
	return e
}

// CodeOf extracts the error code from err, or InternalError if err carries none.
func CodeOf(err error) ErrorCode {
	var ae *AuditError
	if stderrors.As(err, &ae) {
		return ae.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	var ae *AuditError
	if stderrors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
