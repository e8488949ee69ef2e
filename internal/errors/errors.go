// Package errors provides a lightweight structured error type (HotelError)
// for category-based classification of room, input and storage failures,
// shared by the registry and the CLI.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a hotelkeys error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Room state rejections
	CategoryRoom ErrorCategory = "room"

	// Persistence errors
	CategoryStorage ErrorCategory = "storage"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// ErrorCode identifies a specific failure within a category.
type ErrorCode string

const (
	CodeNone                 ErrorCode = ""
	CodeRoomNotFound         ErrorCode = "room_not_found"
	CodeRoomOccupied         ErrorCode = "room_occupied"
	CodeRoomAlreadyAvailable ErrorCode = "room_already_available"
	CodeInvalidInput         ErrorCode = "invalid_input"
	CodeStorageCorrupt       ErrorCode = "storage_corrupt"
	CodeStorageWriteFailed   ErrorCode = "storage_write_failed"
	CodeConfigInvalid        ErrorCode = "config_invalid"
)

// HotelError is a structured error with category, code and context
type HotelError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Code     ErrorCode     `json:"code,omitempty"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for HotelError
type ContextFields map[string]any

// Error implements the error interface
func (e *HotelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *HotelError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *HotelError) WithContext(key string, value any) *HotelError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithCode tags the error with a specific failure code.
func (e *HotelError) WithCode(code ErrorCode) *HotelError {
	e.Code = code
	return e
}

// New creates a new HotelError
func New(category ErrorCategory, severity ErrorSeverity, message string) *HotelError {
	return &HotelError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new HotelError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *HotelError {
	return &HotelError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As returns the first HotelError in err's chain.
func As(err error) (*HotelError, bool) {
	var he *HotelError
	if stdErrors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// HasCode reports whether any HotelError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		he, ok := As(err)
		if !ok {
			return false
		}
		if he.Code == code {
			return true
		}
		err = he.Cause
	}
	return false
}
