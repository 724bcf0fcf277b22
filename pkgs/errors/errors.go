package errors

import (
	"fmt"
)

// Error types for failures outside the checked program itself.
// Problems in the program are diagnostics, not errors.
const (
	// Input/File errors
	ErrInputRead    = "INPUT_READ_ERROR"
	ErrFileNotFound = "FILE_NOT_FOUND"

	// Configuration errors
	ErrConfigParse   = "CONFIG_PARSE_ERROR"
	ErrConfigInvalid = "CONFIG_INVALID"

	// Watch errors
	ErrWatch = "WATCH_ERROR"
)

// CheckError represents a structured error with type and context
type CheckError struct {
	Type    string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *CheckError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows error unwrapping
func (e *CheckError) Unwrap() error {
	return e.Cause
}

// New creates a new CheckError
func New(errorType, message string) *CheckError {
	return &CheckError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// Wrap creates a new CheckError wrapping an existing error
func Wrap(errorType, message string, cause error) *CheckError {
	return &CheckError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *CheckError) WithContext(key string, value interface{}) *CheckError {
	e.Context[key] = value
	return e
}

// GetContext returns context value by key
func (e *CheckError) GetContext(key string) (interface{}, bool) {
	value, exists := e.Context[key]
	return value, exists
}

// Helper functions for common error scenarios

// NewInputError creates an input-related error
func NewInputError(path string, cause error) *CheckError {
	return Wrap(ErrInputRead, fmt.Sprintf("cannot read %s", path), cause).
		WithContext("path", path)
}

// NewFileNotFoundError reports a file that was named explicitly but does not exist
func NewFileNotFoundError(path string) *CheckError {
	return New(ErrFileNotFound, fmt.Sprintf("%s does not exist", path)).
		WithContext("path", path)
}

// NewConfigError creates a configuration parsing error
func NewConfigError(path string, cause error) *CheckError {
	return Wrap(ErrConfigParse, fmt.Sprintf("invalid configuration in %s", path), cause).
		WithContext("path", path)
}

// IsErrorType checks if an error is of a specific type, looking through wrapping
func IsErrorType(err error, errorType string) bool {
	for err != nil {
		if checkErr, ok := err.(*CheckError); ok && checkErr.Type == errorType {
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
