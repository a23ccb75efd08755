package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

type UnsupportedGroupByError struct {
	ErrorMessage
}

type MissingCardTokenError struct {
	ErrorMessage
}

// ExternalServiceError reports a failed call to an upstream API. Transient
// failures (throttling, 5xx, transport) may succeed on retry.
type ExternalServiceError struct {
	ErrorMessage
	Service    string
	StatusCode int
	Transient  bool
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewUnsupportedGroupByError(groupBy string) *UnsupportedGroupByError {
	return &UnsupportedGroupByError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("unsupported group_by %q", groupBy)},
	}
}

func NewMissingCardTokenError() *MissingCardTokenError {
	return &MissingCardTokenError{
		ErrorMessage: ErrorMessage{Message: "card token is required"},
	}
}

func NewExternalServiceError(service string, statusCode int, transient bool, message string) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		StatusCode:   statusCode,
		Transient:    transient,
	}
}
