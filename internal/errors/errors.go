package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

const (
	CodeInvalidUpdate = "E100"
	CodeDatabase      = "E200"
	CodeExternalAPI   = "E300"
	CodeInternal      = "E600"
)

type AppError struct {
	Code     string
	Message  string
	Severity Severity
	cause    error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

// NewInvalidUpdateError reports an inbound webhook payload that could not be decoded.
func NewInvalidUpdateError(cause error) *AppError {
	return &AppError{
		Code:     CodeInvalidUpdate,
		Message:  "invalid update payload",
		Severity: SeverityLow,
		cause:    cause,
	}
}

func NewDatabaseError(op string, cause error) *AppError {
	return &AppError{
		Code:     CodeDatabase,
		Message:  fmt.Sprintf("database error: %s", op),
		Severity: SeverityHigh,
		cause:    cause,
	}
}

func NewExternalAPIError(apiName string, cause error) *AppError {
	return &AppError{
		Code:     CodeExternalAPI,
		Message:  fmt.Sprintf("external API error: %s", apiName),
		Severity: SeverityMedium,
		cause:    cause,
	}
}

func NewInternalError(cause error) *AppError {
	return &AppError{
		Code:     CodeInternal,
		Message:  "internal error",
		Severity: SeverityCritical,
		cause:    cause,
	}
}
