// Package errors provides structured error types for the explorer.
// All errors include a category, code, message and, for decode failures,
// the location in the input where decoding stopped.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by system component.
type ErrorCategory string

const (
	ErrCategoryDecode     ErrorCategory = "DECODE"
	ErrCategoryValidation ErrorCategory = "VALIDATION"
	ErrCategoryStore      ErrorCategory = "STORE"
	ErrCategoryStorage    ErrorCategory = "STORAGE"
	ErrCategoryInternal   ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Decode codes
	CodeUnknownVersion    = "UNKNOWN_VERSION"
	CodeMalformedDocument = "MALFORMED_DOCUMENT"
	CodeInvalidCell       = "INVALID_CELL"
	CodeInvalidLensKind   = "INVALID_LENS_KIND"
	CodeInvalidTree       = "INVALID_TREE"
	CodeInvalidTrace      = "INVALID_TRACE"

	// Validation codes
	CodeInvalidConfig    = "INVALID_CONFIG"
	CodeInvalidTolerance = "INVALID_TOLERANCE"

	// Store codes
	CodeRunNotFound        = "RUN_NOT_FOUND"
	CodeCorruptionDetected = "CORRUPTION_DETECTED"
	CodeWriteFailed        = "WRITE_FAILED"
	CodeReadFailed         = "READ_FAILED"

	// Storage codes
	CodeUploadFailed   = "UPLOAD_FAILED"
	CodeDownloadFailed = "DOWNLOAD_FAILED"
	CodeDeleteFailed   = "DELETE_FAILED"
	CodeObjectNotFound = "OBJECT_NOT_FOUND"
	CodeConflict       = "CONFLICT"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// ExplorerError is the structured error type used throughout the system.
type ExplorerError struct {
	Category ErrorCategory
	Code     string
	Message  string
	// Context locates the failure in the input, e.g. "interestLists[1].table[0][2]".
	Context   string
	Details   map[string]interface{}
	Cause     error
	Retryable bool
}

// Error returns a formatted error string.
func (e *ExplorerError) Error() string {
	msg := e.Message
	if e.Context != "" {
		msg = fmt.Sprintf("%s (at %s)", e.Message, e.Context)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *ExplorerError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *ExplorerError) Is(target error) bool {
	var t *ExplorerError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new ExplorerError.
func New(category ErrorCategory, code, message string) *ExplorerError {
	return &ExplorerError{
		Category:  category,
		Code:      code,
		Message:   message,
		Retryable: isRetryable(category, code),
	}
}

// Wrap creates a new ExplorerError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *ExplorerError {
	return &ExplorerError{
		Category:  category,
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: isRetryable(category, code),
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *ExplorerError) WithDetails(details map[string]interface{}) *ExplorerError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithContext returns a copy of the error located at context.
func (e *ExplorerError) WithContext(context string) *ExplorerError {
	cp := *e
	cp.Context = context
	return &cp
}

// IsRetryable checks whether an error (or its chain) is retryable.
func IsRetryable(err error) bool {
	var ee *ExplorerError
	if errors.As(err, &ee) {
		return ee.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not an ExplorerError.
func GetCategory(err error) ErrorCategory {
	var ee *ExplorerError
	if errors.As(err, &ee) {
		return ee.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not an ExplorerError.
func GetCode(err error) string {
	var ee *ExplorerError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// GetContext extracts the decode location from an error chain.
func GetContext(err error) string {
	var ee *ExplorerError
	if errors.As(err, &ee) {
		return ee.Context
	}
	return ""
}

func isRetryable(category ErrorCategory, code string) bool {
	switch {
	case category == ErrCategoryStorage && code == CodeUploadFailed:
		return true
	case category == ErrCategoryStorage && code == CodeDownloadFailed:
		return true
	default:
		return false
	}
}

// Convenience constructors for common errors.

func NewDecodeError(code, context, message string, cause error) *ExplorerError {
	e := Wrap(ErrCategoryDecode, code, message, cause)
	e.Context = context
	return e
}

func NewValidationError(code, message string) *ExplorerError {
	return New(ErrCategoryValidation, code, message)
}

func NewStoreError(code, message string, cause error) *ExplorerError {
	return Wrap(ErrCategoryStore, code, message, cause)
}

func NewStorageError(code, message string, cause error) *ExplorerError {
	return Wrap(ErrCategoryStorage, code, message, cause)
}

func NewInternalError(message string, cause error) *ExplorerError {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}
