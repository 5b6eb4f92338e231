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

// Error taxonomy. Recognition failures and missed rule matches are soft:
// they are recorded per image and never abort a batch.
var (
	ErrCatalogUnavailable = errors.New("rule catalog unavailable")
	ErrRecognitionFailed  = errors.New("recognition failed")
	ErrNoRuleMatch        = errors.New("no rule set matched")
	ErrInvalidRecord      = errors.New("invalid record")
	ErrSuperseded         = errors.New("submission superseded by a newer call")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
