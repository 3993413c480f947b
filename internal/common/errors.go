package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ConversionError means a document could not be rasterized. Always local to
// one document, never fatal to the batch.
type ConversionError struct {
	Path  string
	Cause error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed for %s: %v", e.Path, e.Cause)
}

func (e *ConversionError) Unwrap() error { return e.Cause }

// OCRError means the local OCR engine failed. Empty text is not an OCRError.
type OCRError struct {
	Cause error
}

func (e *OCRError) Error() string { return fmt.Sprintf("ocr failed: %v", e.Cause) }

func (e *OCRError) Unwrap() error { return e.Cause }

// SchemaError means the extraction response could not be parsed into the
// expected schema. Callers decide whether to retry.
type SchemaError struct {
	Detail string
	Cause  error
}

func (e *SchemaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema error: %s: %v", e.Detail, e.Cause)
	}
	return fmt.Sprintf("schema error: %s", e.Detail)
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// ServiceError covers network, auth and rate-limit failures from the external
// extraction service. Retryable distinguishes transient failures (rate limit,
// 5xx, timeouts) from terminal ones (bad key, malformed request).
type ServiceError struct {
	StatusCode int
	Retryable  bool
	Cause      error
}

func (e *ServiceError) Error() string {
	kind := "terminal"
	if e.Retryable {
		kind = "retryable"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("service error (%s, status %d): %v", kind, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("service error (%s): %v", kind, e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

// IsRetryable reports whether err is a ServiceError marked retryable.
func IsRetryable(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Retryable
}

// AsServiceError unwraps err to a ServiceError, if it carries one.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ErrorKind returns a stable label for an error, used in per-document results.
func ErrorKind(err error) string {
	var (
		ce *ConversionError
		oe *OCRError
		pe *SchemaError
		se *ServiceError
	)
	switch {
	case errors.As(err, &ce):
		return "conversion"
	case errors.As(err, &oe):
		return "ocr"
	case errors.As(err, &pe):
		return "schema"
	case errors.As(err, &se):
		return "service"
	}
	return "internal"
}
