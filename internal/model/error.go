package model

import (
	"errors"
	"net/http"
)

// ErrorResponse represents the standardised failure envelope.
type ErrorResponse struct {
	Success       bool         `json:"success"`
	Message       string       `json:"message"`
	Error         *ErrorDetail `json:"error,omitempty"`
	CorrelationID string       `json:"correlationId,omitempty"`
}

// ErrorDetail carries the machine-readable part of an error response.
type ErrorDetail struct {
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MessageResponse is returned by endpoints that acknowledge an action without a resource body.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeBadRequest           = "BAD_REQUEST"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeInvalidReference     = "INVALID_REFERENCE"
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeTooManyRequests      = "TOO_MANY_REQUESTS"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// DomainError is an error with a taxonomy code that maps onto an HTTP status.
type DomainError struct {
	Code    string
	Message string
	Fields  map[string]string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code and message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// HTTPStatus returns the status code used when the error reaches a client.
func (e *DomainError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeBadRequest, ErrCodeInvalidReference, ErrCodeInvalidCredentials,
		ErrCodeUnsupportedMediaType, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewBadRequest creates a BadRequest error.
func NewBadRequest(message string) *DomainError {
	return NewDomainError(ErrCodeBadRequest, message)
}

// NewNotFound creates a NotFound error.
func NewNotFound(message string) *DomainError {
	return NewDomainError(ErrCodeNotFound, message)
}

// NewInvalidReference creates an InvalidReference error.
func NewInvalidReference(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidReference, message)
}

// NewValidationError creates a ValidationError listing the rejected fields.
func NewValidationError(fields map[string]string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// AsDomainError extracts a DomainError from err's chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Common domain errors
var (
	ErrUnauthorised       = NewDomainError(ErrCodeUnauthorised, "The user is not authorized")
	ErrInvalidCredentials = NewDomainError(ErrCodeInvalidCredentials, "Invalid email or password")
	ErrInvalidCategory    = NewInvalidReference("Invalid Category")
	ErrInvalidProduct     = NewInvalidReference("Invalid Product")
	ErrUnsupportedImage   = NewDomainError(ErrCodeUnsupportedMediaType, "invalid image type")
	ErrNoImage            = NewBadRequest("No image in the request")
	ErrTooManyImages      = NewBadRequest("At most 10 gallery images are allowed")
	ErrInvalidBody        = NewBadRequest("invalid request body")
	ErrTooManyRequests    = NewDomainError(ErrCodeTooManyRequests, "Too many requests, try again later")
	ErrEmailTaken         = &DomainError{
		Code:    ErrCodeValidation,
		Message: "Email is already registered",
		Fields:  map[string]string{"email": "already registered"},
	}

	ErrProductNotFound  = NewNotFound("The product with the given ID was not found.")
	ErrCategoryNotFound = NewNotFound("The category with the given ID was not found.")
	ErrUserNotFound     = NewNotFound("The user with the given ID was not found.")
	ErrOrderNotFound    = NewNotFound("The order with the given ID was not found.")
)
