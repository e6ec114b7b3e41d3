package errors

import (
	"fmt"
)

// AppError is a structured application error. Recoverable data problems are
// collected into report objects instead; AppError is for structural failures
// that must stop the invocation.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, preserving an existing code.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN".
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Error codes for the analysis pipeline taxonomy.
const (
	CodeMissingInput     = "MISSING_INPUT"
	CodeMalformedData    = "MALFORMED_DATA"
	CodeEmptyInput       = "EMPTY_INPUT"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeEngineError      = "ENGINE_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// MissingInput marks a required input file that does not exist.
func MissingInput(name string) *AppError {
	return New(CodeMissingInput, fmt.Sprintf("missing %s", name))
}

// MalformedData marks data whose shape or type does not match the schema.
func MalformedData(message string) *AppError {
	return New(CodeMalformedData, message)
}

// EmptyInput marks an aggregation over zero records, which is a caller bug.
func EmptyInput(what string) *AppError {
	return New(CodeEmptyInput, fmt.Sprintf("%s is empty", what))
}

// ConfigInvalid marks unusable configuration.
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// EngineError marks a failure inside the external simulation engine.
func EngineError(cause error) *AppError {
	return &AppError{
		Code:    CodeEngineError,
		Message: "simulation engine error",
		Cause:   cause,
	}
}
