// Package errors provides structured error handling with typed error codes
// for the signal pipeline.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters and configuration
//   - Data errors (200-299): Missing or insufficient price data
//   - Indicator errors (300-399): Indicator computation failures
//   - Strategy errors (400-499): Strategy evaluation failures
//   - History errors (500-599): Prior-run alignment and store errors
//   - Market data errors (600-699): Price series fetching and parsing errors
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidParameter, "invalid parameter value")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeInsufficientData, "series too short for %s", symbol)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to load prior run", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeAlignmentMismatch) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsInvalidParameter reports whether an error belongs to the validation
// category (codes 100-199): a parameter or configuration value outside its
// valid domain.
func IsInvalidParameter(err error) bool {
	code := GetCode(err)

	return code >= 100 && code < 200
}

// InsufficientDataError represents an error when a price series does not
// carry enough rows for the longest indicator lookback.
type InsufficientDataError struct {
	Required int    // Minimum rows required
	Actual   int    // Actual rows available
	Symbol   string // Optional: symbol context
	Message  string // Human-readable message
}

// NewInsufficientDataError creates a new InsufficientDataError.
func NewInsufficientDataError(required, actual int, symbol, message string) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  message,
	}
}

// NewInsufficientDataErrorf creates a new InsufficientDataError with a formatted message.
func NewInsufficientDataErrorf(required, actual int, symbol, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return e.Message
}

// IsInsufficientDataError checks if an error is an InsufficientDataError.
// It uses errors.As to check the error chain.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError

	return errors.As(err, &insufficientErr)
}

// AlignmentError represents a row-index mismatch between the current result
// tables and a prior run's ledger. Alignment is strict: the prior ledger must
// have the same length and the same dates, it is never re-matched by lookup.
type AlignmentError struct {
	CurrentLen int
	PriorLen   int
	Message    string
}

// NewAlignmentErrorf creates a new AlignmentError with a formatted message.
func NewAlignmentErrorf(currentLen, priorLen int, format string, args ...any) *AlignmentError {
	return &AlignmentError{
		CurrentLen: currentLen,
		PriorLen:   priorLen,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *AlignmentError) Error() string {
	return e.Message
}

// IsAlignmentError checks if an error is an AlignmentError.
func IsAlignmentError(err error) bool {
	var alignmentErr *AlignmentError

	return errors.As(err, &alignmentErr)
}
