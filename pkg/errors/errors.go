package errors

import (
	"fmt"
	"net/http"
)

// Kind classifies a failed call to the Users API as seen by the screen.
type Kind int

const (
	// FetchFailed means a page of users could not be loaded.
	FetchFailed Kind = iota + 1
	// CreateFailed means a new user could not be created.
	CreateFailed
	// DeleteFailed means a user could not be deleted.
	DeleteFailed
)

// Fixed user-facing messages, one per Kind.
const (
	MessageFetchFailed  = "There was an error fetching the user data!"
	MessageCreateFailed = "Error creating user"
	MessageDeleteFailed = "Error deleting user"
)

// Message returns the user-facing text for k.
func (k Kind) Message() string {
	switch k {
	case FetchFailed:
		return MessageFetchFailed
	case CreateFailed:
		return MessageCreateFailed
	case DeleteFailed:
		return MessageDeleteFailed
	default:
		return "Unexpected error"
	}
}

// String implements fmt.Stringer
func (k Kind) String() string {
	switch k {
	case FetchFailed:
		return "fetch_failed"
	case CreateFailed:
		return "create_failed"
	case DeleteFailed:
		return "delete_failed"
	default:
		return "unknown"
	}
}

// UIError wraps a transport error with the Kind shown to the user.
// The wrapped error is for logs only.
type UIError struct {
	Kind Kind
	Err  error
}

// NewUIError creates a new UIError
func NewUIError(kind Kind, err error) *UIError {
	return &UIError{Kind: kind, Err: err}
}

// Error implements the error interface
func (e *UIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

// Unwrap returns the wrapped error
func (e *UIError) Unwrap() error {
	return e.Err
}

// Message returns the fixed user-facing message
func (e *UIError) Message() string {
	return e.Kind.Message()
}

// Common errors of the development Users API
var (
	ErrNotFound        = NewNotFoundError("resource", "resource not found")
	ErrInvalidArgument = NewValidationError("", "invalid argument")
	ErrInternal        = NewInternalError("internal server error", nil)
)

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// HTTPStatus returns the HTTP status for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPStatuser is implemented by errors that map to an HTTP status
type HTTPStatuser interface {
	HTTPStatus() int
}
