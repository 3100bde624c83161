package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
	Details []string
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

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of a wrapped AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
			Details: appErr.Details,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
			Details: appErr.Details,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// As finds the outermost AppError in err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	_, ok := As(err)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	return err != nil && GetCode(err) == code
}

// GetDetails returns the details attached to the outermost AppError
func GetDetails(err error) []string {
	if appErr, ok := As(err); ok {
		return appErr.Details
	}
	return nil
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"

	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeParseFailure      = "PARSE_FAILURE"
	CodeTableNotFound     = "TABLE_NOT_FOUND"
	CodeColumnNotFound    = "COLUMN_NOT_FOUND"
	CodeEmptyRequest      = "EMPTY_REQUEST"
	CodeAnalysisFailure   = "ANALYSIS_FAILURE"
	CodeFileTooLarge      = "FILE_TOO_LARGE"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: cause}
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// UnsupportedFormat reports a file extension or format tag outside the accepted set
func UnsupportedFormat(ext string) *AppError {
	return &AppError{
		Code:    CodeUnsupportedFormat,
		Message: fmt.Sprintf("unsupported file format: %q", ext),
		Details: []string{ext},
	}
}

// ParseFailure wraps a decode error for the declared format
func ParseFailure(format string, cause error) *AppError {
	return &AppError{
		Code:    CodeParseFailure,
		Message: fmt.Sprintf("failed to parse %s data", format),
		Cause:   cause,
	}
}

// TableNotFound reports a dataset file that does not exist
func TableNotFound(name string) *AppError {
	return &AppError{
		Code:    CodeTableNotFound,
		Message: fmt.Sprintf("dataset not found: %s", name),
		Details: []string{name},
	}
}

// ColumnNotFound lists every requested column that is absent from the table
func ColumnNotFound(names []string) *AppError {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return &AppError{
		Code:    CodeColumnNotFound,
		Message: fmt.Sprintf("columns not found in dataset: [%s]", strings.Join(quoted, ", ")),
		Details: append([]string(nil), names...),
	}
}

// EmptyRequest reports a request that names nothing to act on
func EmptyRequest(message string) *AppError {
	return New(CodeEmptyRequest, message)
}

// FileTooLarge reports an upload over the size cap
func FileTooLarge(limitBytes int64, cause error) *AppError {
	limit := fmt.Sprintf("%d bytes", limitBytes)
	if limitBytes >= 1024*1024 {
		limit = fmt.Sprintf("%d MB", limitBytes/(1024*1024))
	}
	return &AppError{
		Code:    CodeFileTooLarge,
		Message: "file exceeds the " + limit + " upload limit",
		Cause:   cause,
	}
}

// AnalysisFailure reports an unexpected computation error
func AnalysisFailure(cause error) *AppError {
	return &AppError{
		Code:    CodeAnalysisFailure,
		Message: "analysis failed",
		Cause:   cause,
	}
}
